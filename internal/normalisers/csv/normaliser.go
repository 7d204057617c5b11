// Package csv flattens CSV files into labelled text rows so tabular
// data remains searchable by column value.
package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"strings"

	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles CSV files.
type Normaliser struct{}

// New creates a CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise renders each row as "header: value" pairs, one row per line.
// The first row is treated as the header.
func (n *Normaliser) Normalise(_ context.Context, raw []byte) (string, error) {
	reader := stdcsv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	header := records[0]
	var b strings.Builder
	for _, row := range records[1:] {
		pairs := make([]string, 0, len(row))
		for i, field := range row {
			if i < len(header) && header[i] != "" {
				pairs = append(pairs, header[i]+": "+field)
			} else {
				pairs = append(pairs, field)
			}
		}
		b.WriteString(strings.Join(pairs, ", "))
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

// Extensions returns the handled file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".csv"}
}

// TypeName returns the document type recorded in metadata.
func (n *Normaliser) TypeName() string {
	return "csv"
}
