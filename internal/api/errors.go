package api

import "errors"

var (
	// ErrAuth means the session is invalid or unobtainable. Fatal to the
	// whole run; surfaced immediately, never retried here.
	ErrAuth = errors.New("authentication failed")

	// ErrTransport covers any failed remote call: listing, download, trash
	// or upload. Batch workflows recover from it per file; plain listing
	// and export surface it to the operator.
	ErrTransport = errors.New("remote call failed")

	// ErrImageDecode means a staged file could not be parsed as an image.
	// Batch workflows skip the file and continue.
	ErrImageDecode = errors.New("cannot decode image")
)
