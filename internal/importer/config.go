package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the kind of vocabulary file being imported
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config defines the import configuration
type Config struct {
	FilePath      string // Path to the vocabulary file
	Format        Format // Detected from the extension when empty
	SheetName     string // Sheet to import, the first sheet when empty
	StartRow      int    // First data row (1-based) for xlsx and csv
	WordColumn    string
	PinyinColumn  string
	POSColumn     string
	MeaningColumn string
	ChapterColumn string
	Chapter       int    // Chapter for rows that do not carry one
	Source        string // e.g. "hsk1"
}

// DefaultConfig returns the default import configuration
func DefaultConfig() Config {
	return Config{
		StartRow:      2, // skip header
		WordColumn:    "A",
		PinyinColumn:  "B",
		POSColumn:     "C",
		MeaningColumn: "D",
		ChapterColumn: "E",
		Chapter:       1,
	}
}

// DetectFormat picks the format from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".txt", ".md":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
}
