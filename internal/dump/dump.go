// Package dump persists the visited urls of a crawl.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// Error is a dump error.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}

// ErrMissingPath indicates that the destination of the dump is not set.
const ErrMissingPath = Error("missing dump path")

// Write writes the urls to the writer, one per line.
func Write(w io.Writer, urls []string) error {
	bw := bufio.NewWriter(w)

	for _, u := range urls {
		if _, err := bw.WriteString(u); err != nil {
			return fmt.Errorf("could not write %q: %w", u, err)
		}

		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("could not write %q: %w", u, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not flush dump: %w", err)
	}

	return nil
}

// ToFile writes the urls to a file, one per line. The file is created if it does not exist, or truncated if it does.
func ToFile(path string, urls []string) (err error) {
	if path == "" {
		return ErrMissingPath
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) // nolint: gosec
	if err != nil {
		return fmt.Errorf("could not open dump file: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("could not close dump file: %w", closeErr))
		}
	}()

	return Write(f, urls)
}
