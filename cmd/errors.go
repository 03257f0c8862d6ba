package cmd

import "errors"

var (
	errPasswordTooShort = errors.New("password must be at least 8 characters long")
	errPasswordMismatch = errors.New("passwords do not match")
)
