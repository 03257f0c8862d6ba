package reduce

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cloudsaver/internal/api"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

func decodeDims(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestReduceDownscalesToBounds(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "big.png")
	out := filepath.Join(dir, "big_reduced.png")
	writePNG(t, in, 4000, 3000)

	result, err := File(in, out, DefaultMaxWidth, DefaultMaxHeight)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	w, h := decodeDims(t, out)
	if w > DefaultMaxWidth || h > DefaultMaxHeight {
		t.Errorf("Output %dx%d exceeds bounds %dx%d", w, h, DefaultMaxWidth, DefaultMaxHeight)
	}
	// 4000x3000 is 4:3; the height bound wins: 1440x1080.
	if w != 1440 || h != 1080 {
		t.Errorf("Expected 1440x1080, got %dx%d", w, h)
	}

	if result.OutputPath != out {
		t.Errorf("Expected output path %s, got %s", out, result.OutputPath)
	}
	inInfo, _ := os.Stat(in)
	if result.BeforeBytes != inInfo.Size() {
		t.Errorf("BeforeBytes %d does not match input size %d", result.BeforeBytes, inInfo.Size())
	}
	outInfo, _ := os.Stat(out)
	if result.AfterBytes != outInfo.Size() {
		t.Errorf("AfterBytes %d does not match output size %d", result.AfterBytes, outInfo.Size())
	}
}

func TestReduceNeverUpscales(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "small.png")
	out := filepath.Join(dir, "small_reduced.png")
	writePNG(t, in, 800, 600)

	if _, err := File(in, out, DefaultMaxWidth, DefaultMaxHeight); err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	w, h := decodeDims(t, out)
	if w != 800 || h != 600 {
		t.Errorf("In-bounds image should keep its dimensions, got %dx%d", w, h)
	}
}

func TestReduceIdempotentWithinBounds(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.png")
	first := filepath.Join(dir, "b.png")
	second := filepath.Join(dir, "c.png")
	writePNG(t, in, 2560, 1440)

	if _, err := File(in, first, DefaultMaxWidth, DefaultMaxHeight); err != nil {
		t.Fatalf("First reduce failed: %v", err)
	}
	if _, err := File(first, second, DefaultMaxWidth, DefaultMaxHeight); err != nil {
		t.Fatalf("Second reduce failed: %v", err)
	}

	w1, h1 := decodeDims(t, first)
	w2, h2 := decodeDims(t, second)
	if w1 != w2 || h1 != h2 {
		t.Errorf("Second reduction changed dimensions: %dx%d -> %dx%d", w1, h1, w2, h2)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orig.png")
	out := filepath.Join(dir, "reduced.png")
	writePNG(t, in, 3000, 2000)

	before, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := File(in, out, DefaultMaxWidth, DefaultMaxHeight); err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	after, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Input file was modified")
	}
}

func TestReduceDecodeError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "corrupt.jpg")
	out := filepath.Join(dir, "out.jpg")
	if err := os.WriteFile(in, []byte("this is not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := File(in, out, DefaultMaxWidth, DefaultMaxHeight)
	if err == nil {
		t.Fatal("Expected an error for a corrupt input")
	}
	if !errors.Is(err, api.ErrImageDecode) {
		t.Errorf("Expected error to wrap api.ErrImageDecode, got: %v", err)
	}
}

func TestReduceMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := File(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"), DefaultMaxWidth, DefaultMaxHeight)
	if err == nil {
		t.Fatal("Expected an error for a missing input file")
	}
	if errors.Is(err, api.ErrImageDecode) {
		t.Error("A missing file is a transport-level problem, not a decode error")
	}
}
