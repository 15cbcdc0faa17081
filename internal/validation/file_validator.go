package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "revdiag/internal/errors"
)

// FileValidator checks input and output paths before a run touches them
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError(fmt.Sprintf("file %s", path)).
			WithContext("file", path)
	}
	if err != nil {
		return apperrors.NewStorageError("failed to stat file", err).
			WithContext("file", path)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("file is not readable", err).
			WithContext("file", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is an existing xlsx workbook that is
// not an Excel lock file.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := checkExtension(path, ".xlsx"); err != nil {
		return err
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return apperrors.NewValidationError(fmt.Sprintf("file %s is a temporary Excel file", path), nil)
	}

	return v.ValidateFile(path)
}

// PrepareOutputFile checks the extension of an output path and creates its
// parent directory.
func (v *FileValidator) PrepareOutputFile(path, ext string) error {
	if err := checkExtension(path, ext); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("directory", dir)
	}
	return nil
}

func checkExtension(path, want string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != want {
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s must have extension %s, got %q", path, want, ext), nil).
			WithContext("file", path)
	}
	return nil
}
