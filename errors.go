package blockfs

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DriverError is the error type returned by every layer of the file system.
// Each error kind is a sentinel value below; use [errors.Is] to test for one.
// The message of a kind is exactly the line the shell prints for it.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	Wrap(err error) DriverError
}

type baseBlockfsError string

const rootError = baseBlockfsError("")

// Error kinds raised by file system operations.
var ErrNameTooLong = rootError.WithMessage("File name is too long")
var ErrExists = rootError.WithMessage("File exists")
var ErrNotFound = rootError.WithMessage("File does not exist")
var ErrNotADirectory = rootError.WithMessage("File is not a directory")
var ErrIsADirectory = rootError.WithMessage("File is a directory")
var ErrDirectoryFull = rootError.WithMessage("Directory is full")
var ErrNoSpaceOnDevice = rootError.WithMessage("Disk is full")
var ErrFileTooLarge = rootError.WithMessage("Append exceeds maximum file size")
var ErrDirectoryNotEmpty = rootError.WithMessage("Directory is not empty")

// Error kinds raised by the block store and the infrastructure around it.
var ErrAlreadyInProgress = rootError.WithMessage("Operation already in progress")
var ErrFileSystemCorrupted = rootError.WithMessage("Structure needs cleaning")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrNotMounted = rootError.WithMessage("Device is not mounted")

func (e baseBlockfsError) Error() string {
	return string(e)
}

func (e baseBlockfsError) RootCause() DriverError {
	return e
}

func (e baseBlockfsError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       message,
		originalError: e,
	}
}

func (e baseBlockfsError) Wrap(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// CastToDriverError converts any error into a [DriverError]. Errors that
// already are one are returned unchanged, anything else is wrapped as
// [ErrIOFailed]. A nil error stays nil.
func CastToDriverError(err error) DriverError {
	if err == nil {
		return nil
	}
	if driverErr, ok := err.(DriverError); ok {
		return driverErr
	}
	return ErrIOFailed.Wrap(err)
}

// -----------------------------------------------------------------------------

type customDriverError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customDriverError) Error() string {
	return e.message
}

func (e customDriverError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customDriverError) Wrap(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customDriverError) Unwrap() error {
	return e.originalError
}
