package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"exporter/internal/logger"
)

// Emitter hands a generated file to the user. No response flows back into the exporters.
type Emitter interface {
	Emit(content []byte, filename, mimeType string) (string, error)
}

// FileEmitter saves files into a directory, the CLI counterpart of a browser download.
type FileEmitter struct {
	dir string
	log zerolog.Logger
}

// NewFileEmitter creates an emitter writing into dir. The directory is created on first use.
func NewFileEmitter(dir string) *FileEmitter {
	if dir == "" {
		dir = "."
	}
	return &FileEmitter{
		dir: dir,
		log: logger.WithComponent("file-emitter"),
	}
}

// Emit writes content to dir/filename via a temporary file and rename, so a partially
// written export is never left under the final name. It returns the final path.
func (e *FileEmitter) Emit(content []byte, filename, mimeType string) (string, error) {
	const op = "Emit"

	if filename == "" || filepath.Base(filename) != filename {
		return "", NewExportError(op, fmt.Errorf("invalid filename %q", filename), "")
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", NewExportError(op, err, "failed to create output directory")
	}

	tmp, err := os.CreateTemp(e.dir, "."+filename+".*")
	if err != nil {
		return "", NewExportError(op, err, "failed to create temporary file")
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", NewExportError(op, err, "failed to write content")
	}
	if err := tmp.Close(); err != nil {
		return "", NewExportError(op, err, "failed to close temporary file")
	}

	path := filepath.Join(e.dir, filename)
	if err := os.Rename(tmpName, path); err != nil {
		return "", NewExportError(op, err, "failed to move file into place")
	}
	if err := os.Chmod(path, 0o644); err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("Failed to set file permissions")
	}

	e.log.Info().
		Str("path", path).
		Str("mime_type", mimeType).
		Int("bytes", len(content)).
		Msg("Export file written")

	return path, nil
}
