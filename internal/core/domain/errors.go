package domain

import "errors"

// ErrInvalidArgument reports a nil or missing required call parameter. It is
// the only error that escapes the checker's operations; every I/O failure is
// converted into a notification instead.
var ErrInvalidArgument = errors.New("invalid argument")

// FailureKind categorizes recoverable failures carried on notifications.
type FailureKind string

const (
	// FailureNetwork covers manifest fetch and file download failures.
	FailureNetwork FailureKind = "network"

	// FailureParse covers malformed manifest XML and missing required
	// attributes.
	FailureParse FailureKind = "parse"

	// FailureFilesystem covers file and archive I/O errors during install
	// and uninstall.
	FailureFilesystem FailureKind = "filesystem"
)
