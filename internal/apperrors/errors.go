package apperrors

import (
	"errors"
	"fmt"
)

// ConfigurationError means a volume could not be matched to a schedule. It
// is fatal: the run must abort before any mutation for that volume.
type ConfigurationError struct {
	VolumeID string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for volume %s: %s", e.VolumeID, e.Reason)
}

// VolumeNotFoundError means a configured volume does not exist (or is not
// visible) in the provider account.
type VolumeNotFoundError struct {
	VolumeID string
}

func (e *VolumeNotFoundError) Error() string {
	return fmt.Sprintf("volume %s not found", e.VolumeID)
}

// APIError wraps a failed provider call with the operation and, when known,
// the volume it was performed for.
type APIError struct {
	Op       string
	VolumeID string
	Err      error
}

func (e *APIError) Error() string {
	if e.VolumeID != "" {
		return fmt.Sprintf("%s failed for volume %s: %v", e.Op, e.VolumeID, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// DeleteError means one specific snapshot could not be deleted (in use,
// already gone, permission). It is collected and reported, never fatal to
// the rest of the run.
type DeleteError struct {
	SnapshotID string
	Err        error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete snapshot %s: %v", e.SnapshotID, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// Exit codes follow sysexits.h, same mapping the CLI layer always used.
const (
	ExitOK          = 0
	ExitGeneric     = 1
	ExitNoInput     = 66 // EX_NOINPUT
	ExitUnavailable = 69 // EX_UNAVAILABLE
	ExitConfig      = 78 // EX_CONFIG
)

// ExitCode maps an error to the process exit code the CLI should use.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var confErr *ConfigurationError
	if errors.As(err, &confErr) {
		return ExitConfig
	}
	var nfErr *VolumeNotFoundError
	if errors.As(err, &nfErr) {
		return ExitNoInput
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return ExitUnavailable
	}
	return ExitGeneric
}
