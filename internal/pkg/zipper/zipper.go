// Package zipper packages rendered images into an in-memory zip archive.
package zipper

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Build streams the given files into a compressed archive and returns the
// complete buffer once the archive is finalized. Entry names are the file
// base names; input order is preserved.
func Build(paths []string) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	for _, path := range paths {
		if err := addFile(zw, path); err != nil {
			zw.Close()
			return nil, err
		}
	}

	// Close flushes the central directory; the archive is complete only
	// after it returns.
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func addFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create entry %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write entry %s: %w", filepath.Base(path), err)
	}
	return nil
}
