// Package output renders analysis reports as JSON, YAML, CSV or a terminal table.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Formatter serialises report data.
type Formatter interface {
	Format(data any, pretty bool) ([]byte, error)
}

// Tabular is data that can be laid out as rows. CSV and table output require it.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{"json", "yaml", "csv", "table"}
}

// NewFormatter returns the formatter for name.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return &JSONFormatter{}, nil
	case "yaml", "yml":
		return &YAMLFormatter{}, nil
	case "csv":
		return &CSVFormatter{}, nil
	case "table":
		return &TableFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", name)
	}
}

// JSONFormatter writes JSON. NaN and infinite floats are replaced by 0
// because encoding/json cannot represent them.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, pretty bool) ([]byte, error) {
	clean := SanitizeFloats(data)
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(clean, "", "  ")
	} else {
		out, err = json.Marshal(clean)
	}
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// YAMLFormatter writes YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVFormatter writes one header line and one line per row.
type CSVFormatter struct{}

func (f *CSVFormatter) Format(data any, pretty bool) ([]byte, error) {
	tab, ok := data.(Tabular)
	if !ok {
		return nil, fmt.Errorf("csv output is not available for %T", data)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tab.Header()); err != nil {
		return nil, err
	}
	if err := w.WriteAll(tab.Rows()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A40000")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// TableFormatter draws a bordered terminal table. pretty enables colour.
type TableFormatter struct{}

func (f *TableFormatter) Format(data any, pretty bool) ([]byte, error) {
	tab, ok := data.(Tabular)
	if !ok {
		return nil, fmt.Errorf("table output is not available for %T", data)
	}

	headers := make([]string, len(tab.Header()))
	for i, h := range tab.Header() {
		headers[i] = HeaderLabel(h)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(tab.Rows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if pretty {
					return headerStyle
				}
				return cellStyle.Bold(true)
			}
			return cellStyle
		})
	if pretty {
		t = t.BorderStyle(borderStyle)
	}

	return []byte(t.String() + "\n"), nil
}

var titleCaser = cases.Title(language.English)

// HeaderLabel turns a snake_case key into a title-cased column label.
func HeaderLabel(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}
