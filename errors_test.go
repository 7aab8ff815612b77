package blockfs_test

import (
	"errors"
	"testing"

	"github.com/dargueta/blockfs"
	"github.com/stretchr/testify/assert"
)

func TestBlockfsErrorWithMessage(t *testing.T) {
	newErr := blockfs.ErrNotFound.WithMessage("asdfqwerty")
	assert.Equal(
		t, "File does not exist: asdfqwerty", newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, blockfs.ErrNotFound)
	assert.NotErrorIs(t, newErr, blockfs.ErrExists)
}

func TestBlockfsErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := blockfs.ErrIOFailed.Wrap(originalErr)
	expectedMessage := "Input/output error: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, blockfs.ErrIOFailed, "blockfs error not set as parent")
}

func TestShellMessages(t *testing.T) {
	// These strings are what a script transcript shows, so they can't drift.
	assert.Equal(t, "File name is too long", blockfs.ErrNameTooLong.Error())
	assert.Equal(t, "File exists", blockfs.ErrExists.Error())
	assert.Equal(t, "File is not a directory", blockfs.ErrNotADirectory.Error())
	assert.Equal(t, "File is a directory", blockfs.ErrIsADirectory.Error())
	assert.Equal(t, "Directory is full", blockfs.ErrDirectoryFull.Error())
	assert.Equal(t, "Disk is full", blockfs.ErrNoSpaceOnDevice.Error())
	assert.Equal(t, "Append exceeds maximum file size", blockfs.ErrFileTooLarge.Error())
	assert.Equal(t, "Directory is not empty", blockfs.ErrDirectoryNotEmpty.Error())
}

func TestCastToDriverError(t *testing.T) {
	assert.Nil(t, blockfs.CastToDriverError(nil))

	same := blockfs.CastToDriverError(blockfs.ErrExists)
	assert.Equal(t, blockfs.ErrExists, same)

	plain := errors.New("short write")
	cast := blockfs.CastToDriverError(plain)
	assert.ErrorIs(t, cast, blockfs.ErrIOFailed)
	assert.ErrorIs(t, cast, plain)
}
