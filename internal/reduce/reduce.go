// Package reduce shrinks images to a bounded resolution on local disk.
package reduce

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"cloudsaver/internal/api"
)

const (
	// DefaultMaxWidth and DefaultMaxHeight bound the output resolution.
	DefaultMaxWidth  = 1920
	DefaultMaxHeight = 1080

	jpegQuality = 85
)

// Result reports the outcome of one reduction: byte sizes of the input and
// output files on disk. AfterBytes is usually smaller than BeforeBytes but
// re-encoding can grow a file; callers must tolerate that.
type Result struct {
	BeforeBytes int64
	AfterBytes  int64
	OutputPath  string
}

// Saved returns the byte delta of the reduction, negative when the output
// grew.
func (r Result) Saved() int64 {
	return r.BeforeBytes - r.AfterBytes
}

// File shrinks the image at inputPath so neither dimension exceeds
// maxWidth x maxHeight, preserving aspect ratio, and writes the result to
// outputPath. The input file is never modified. Images already within
// bounds keep their dimensions but are still re-encoded.
//
// A file that cannot be parsed as an image returns an error wrapping
// api.ErrImageDecode so batch callers can skip it without aborting.
func File(inputPath, outputPath string, maxWidth, maxHeight int) (Result, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", inputPath, err)
	}
	defer in.Close()

	src, format, err := image.Decode(in)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", api.ErrImageDecode, inputPath, err)
	}

	dst := scaleToFit(src, maxWidth, maxHeight)

	out, err := os.Create(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", outputPath, err)
	}

	switch format {
	case "png":
		err = png.Encode(out, dst)
	case "gif":
		err = gif.Encode(out, dst, nil)
	default:
		err = jpeg.Encode(out, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode %s: %w", outputPath, err)
	}

	beforeInfo, err := os.Stat(inputPath)
	if err != nil {
		return Result{}, err
	}
	afterInfo, err := os.Stat(outputPath)
	if err != nil {
		return Result{}, err
	}

	return Result{
		BeforeBytes: beforeInfo.Size(),
		AfterBytes:  afterInfo.Size(),
		OutputPath:  outputPath,
	}, nil
}

// scaleToFit downscales src so it fits within maxWidth x maxHeight. It never
// upscales: an image already within bounds is returned unchanged.
func scaleToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}

	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
