//go:build windows

package fileutil

import (
	"errors"
	"syscall"
)

func linkUnsupported(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	// ERROR_INVALID_FUNCTION and ERROR_NOT_SUPPORTED from volumes without
	// hard link support.
	return errno == 1 || errno == 50
}
