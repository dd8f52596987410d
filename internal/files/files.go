// Package files читает и пишет документы целиком.
package files

import (
	"errors"
	"os"
	"unicode/utf8"

	"pyedit/internal/apperr"
)

// ErrInvalidEncoding возвращается, если файл не в UTF-8.
var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

const defaultPerm os.FileMode = 0644

// Read возвращает всё содержимое path.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.New(apperr.FileRead, "open", path, err)
	}
	if !utf8.Valid(data) {
		return "", apperr.New(apperr.FileRead, "open", path, ErrInvalidEncoding)
	}
	return string(data), nil
}

// Write заменяет содержимое path на text. Существующий файл сохраняет права.
func Write(path, text string) error {
	perm := defaultPerm
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return apperr.New(apperr.FileWrite, "save", path, errors.New("is a directory"))
		}
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), perm); err != nil {
		return apperr.New(apperr.FileWrite, "save", path, err)
	}
	return nil
}
