package chart

import (
	"os"
	"path/filepath"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

// writeFile replaces path with data via a temp file in the same directory, so
// readers never see a partial image and a failed write leaves nothing behind.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &domain.RenderError{Path: path, Reason: "output path is not writable", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.RenderError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.RenderError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &domain.RenderError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &domain.RenderError{Path: path, Err: err}
	}
	return nil
}
