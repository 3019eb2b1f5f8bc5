package export

import (
	"fmt"
	"strings"
)

// Format identifies an export file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat resolves a user supplied format, defaulting to CSV when empty.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Column is one exported field. Width is a relative weight used by the PDF layout.
type Column struct {
	Key   string
	Label string
	Width float64
}

// Dataset defines tabular export content.
type Dataset struct {
	Title    string
	Subtitle string
	Columns  []Column
	Rows     []map[string]string
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Render renders data in the requested format. baseName is used for the file name.
func Render(format Format, baseName string, data Dataset) (*File, error) {
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("export requires at least one column")
	}
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatCSV:
		body, err = NewCSVExporter().Render(data)
	case FormatPDF:
		body, err = NewPDFExporter().Render(data)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return &File{Name: baseName + "." + string(format), ContentType: format.ContentType(), Data: body}, nil
}
