package resolver

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PackArchive bundles the named files from dir into a single deflated zip
// inside the same directory and returns the archive's base name.
func PackArchive(dir, archiveName string, files []string) (string, error) {
	archivePath := filepath.Join(dir, archiveName)

	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range files {
		if err := addToArchive(zw, dir, name); err != nil {
			zw.Close()
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	return archiveName, nil
}

func addToArchive(zw *zip.Writer, dir, name string) error {
	in, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("archive member %s: %w", name, err)
	}
	defer in.Close()

	header := &zip.FileHeader{Name: name, Method: zip.Deflate}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("archive member %s: %w", name, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("archive member %s: %w", name, err)
	}
	return nil
}
