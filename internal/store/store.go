// Package store reads and writes the flat JSON files a ranking run works with.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrNotFound is returned when an input file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrParse is returned when an input file is not valid JSON of the expected shape.
	ErrParse = errors.New("malformed file")
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
