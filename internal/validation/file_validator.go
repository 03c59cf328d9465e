package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shipreport/internal/errors"
)

// FileValidator runs the pre-flight checks on the input document and the
// output directories
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator returns a validator logging to logger, or to the slog
// default when logger is nil
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// reject logs a failed check and returns it as an IO error
func (v *FileValidator) reject(msg, op, path string, cause error) error {
	v.logger.Error(msg, slog.String("path", path), slog.String("error", cause.Error()))
	return errors.NewIOError(op, path, cause)
}

// ValidateInputFile requires path to be a readable regular file
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return v.reject("Input file does not exist", "open", path, err)
	case err != nil:
		return v.reject("Cannot stat input file", "stat", path, err)
	case info.IsDir():
		return v.reject("Input path is a directory", "read", path, fmt.Errorf("%s is a directory", path))
	}

	f, err := os.Open(path)
	if err != nil {
		return v.reject("Input file is not readable", "open", path, err)
	}
	f.Close()

	v.logger.Debug("Input file ok", slog.String("path", path), slog.Int64("bytes", info.Size()))
	return nil
}

// ValidateOutputDirectory creates dir when needed and proves it accepts
// new files
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return v.reject("Cannot create output directory", "create directory", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".shipreport-probe-*")
	if err != nil {
		return v.reject("Output directory is not writable", "write to", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory ok", slog.String("path", dir))
	return nil
}

// ValidateOutputFiles checks the directory of each non-empty path once
func (v *FileValidator) ValidateOutputFiles(paths ...string) error {
	checked := map[string]struct{}{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if _, ok := checked[dir]; ok {
			continue
		}
		checked[dir] = struct{}{}
		if err := v.ValidateOutputDirectory(dir); err != nil {
			return err
		}
	}
	return nil
}
