package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"shipreport/internal/errors"
	"shipreport/internal/files"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	files  *files.Manager
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(manager *files.Manager, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{files: manager, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	UseCRLF   bool // Terminate lines with \r\n
}

// WriteCSV writes a complete CSV file. The file only appears at filePath
// once every record was written.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", w.files.CleanPath(filePath)),
		slog.Int("record_count", len(options.Records)))

	err := w.files.WriteAtomic(filePath, func(out io.Writer) error {
		return encodeCSV(out, options)
	})
	if err != nil {
		return errors.NewIOError("write", filePath, err)
	}
	return nil
}

func encodeCSV(out io.Writer, options WriteOptions) error {
	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	writer.UseCRLF = options.UseCRLF

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
