package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// Entry names one file to pack: a source path on disk and the name it gets
// inside the archive.
type Entry struct {
	Path string
	Name string
}

// WriteZip packages the entries into a single zip at destPath. The file is
// fully written and synced before returning, so callers can expose it for
// download immediately.
func WriteZip(destPath string, entries []Entry) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	for _, e := range entries {
		if err := addFile(zw, e); err != nil {
			zw.Close()
			out.Close()
			os.Remove(destPath)
			return err
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("sync archive: %w", err)
	}
	return out.Close()
}

func addFile(zw *zip.Writer, e Entry) error {
	f, err := os.Open(e.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", e.Path, err)
	}
	defer f.Close()

	w, err := zw.Create(e.Name)
	if err != nil {
		return fmt.Errorf("add %s to archive: %w", e.Name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write %s to archive: %w", e.Name, err)
	}
	return nil
}
