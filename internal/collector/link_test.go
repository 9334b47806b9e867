package collector_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	sampleHTML = "../../resources/fixtures/sample.html"
	sampleJSON = "../../resources/fixtures/sample.json"
	sampleText = "../../resources/fixtures/sample.txt"
)

type errorReader struct {
	err error
}

func (e errorReader) Read([]byte) (int, error) {
	return 0, e.err
}

func newErrorReader(err error) errorReader {
	return errorReader{err: err}
}

func openFixture(t *testing.T, path string) *os.File {
	t.Helper()

	f, err := os.Open(filepath.Clean(path))
	require.NoError(t, err, "could not open fixture")

	t.Cleanup(func() {
		_ = f.Close() // nolint: errcheck
	})

	return f
}
