package apperr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNilCause(t *testing.T) {
	assert.Nil(t, New(FileRead, "open", "/x", nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := New(StreamRead, "read stdout", "python", io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("run: %w", err)

	assert.Equal(t, StreamRead, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, io.ErrUnexpectedEOF))
	assert.False(t, IsFileError(wrapped))
	assert.Equal(t, Kind(0), KindOf(io.EOF))
}

func TestErrorMessage(t *testing.T) {
	err := New(FileWrite, "save", "/tmp/a.py", errors.New("denied"))
	assert.Equal(t, "save /tmp/a.py: denied", err.Error())

	err = New(ProcessSpawn, "start", "", errors.New("not found"))
	assert.Equal(t, "start: not found", err.Error())
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		FileRead:     "file read",
		FileWrite:    "file write",
		ProcessSpawn: "process spawn",
		StreamRead:   "stream read",
		Kind(42):     "unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}
