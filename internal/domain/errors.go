package domain

import "errors"

// Sentinel errors for cross-package error classification.
// Toolchains and services should wrap these so the CLI can handle
// error categories uniformly without parsing tool output twice.
//
//	return fmt.Errorf("failed to probe toolchain: %w", domain.ErrToolchainUnavailable)
var (
	// ErrNotFound indicates a required file or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrToolchainUnavailable indicates the requested toolchain is not
	// installed or not on PATH.
	ErrToolchainUnavailable = errors.New("toolchain unavailable")

	// ErrRunFailed indicates a run ended with an unresolved failure.
	// The journal and the error summary carry the detail.
	ErrRunFailed = errors.New("run failed")
)
