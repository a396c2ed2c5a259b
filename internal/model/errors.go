package model

import "errors"

// ErrInputTooShort is returned when the document text is empty or below the
// minimum analyzable length. It is the only validation failure reported to callers.
var ErrInputTooShort = errors.New("text too short for analysis")
