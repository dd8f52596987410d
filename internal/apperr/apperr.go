// Package apperr определяет виды ошибок, о которых редактор сообщает пользователю.
package apperr

import (
	"errors"
	"fmt"
)

// Kind классифицирует сбой по месту, где он произошёл.
type Kind int

const (
	FileRead Kind = iota + 1
	FileWrite
	ProcessSpawn
	StreamRead
)

func (k Kind) String() string {
	switch k {
	case FileRead:
		return "file read"
	case FileWrite:
		return "file write"
	case ProcessSpawn:
		return "process spawn"
	case StreamRead:
		return "stream read"
	default:
		return "unknown"
	}
}

// Error оборачивает причину вместе с видом ошибки и путём.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// New создаёт *Error. Для nil причины возвращает nil.
func New(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf возвращает вид первой *Error в цепочке err или 0.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// IsFileError сообщает, возникла ли err при чтении или записи документа.
func IsFileError(err error) bool {
	k := KindOf(err)
	return k == FileRead || k == FileWrite
}
