package excel

import (
	"liquefy/internal/config"
)

// ReaderConfig holds settings for reading run spreadsheets
type ReaderConfig struct {
	// Sheet to read; empty selects the workbook's active sheet
	Sheet string
}

// WriterConfig holds settings for the xlsx result export
type WriterConfig struct {
	Sheet string
}

// DefaultWriterConfig names the export sheet the way the result CSV is named
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{Sheet: "result"}
}

// ReaderConfigFrom maps application configuration onto the reader
func ReaderConfigFrom(cfg config.InputConfig) ReaderConfig {
	return ReaderConfig{Sheet: cfg.Sheet}
}
