package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// ImportError represents an error that occurred while importing a single
// CSV row.
type ImportError struct {
	RowNumber int    // CSV row number (1-based, including header)
	FieldID   string // target field id, empty for row-level errors
	RawValue  string // original CSV value
	Reason    string
}

func (e *ImportError) Error() string {
	if e.FieldID != "" {
		return fmt.Sprintf("row %d, field %q: value %q - %s", e.RowNumber, e.FieldID, e.RawValue, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.RowNumber, e.Reason)
}

// ImportResult contains the results of a CSV lead import.
type ImportResult struct {
	TotalRows    int
	SuccessCount int
	FailedCount  int
	Errors       []*ImportError
	Duration     time.Duration
}

// Summary returns a human-readable summary of the import result.
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("Import completed: %d/%d rows successful, %d failed, duration: %v",
		r.SuccessCount, r.TotalRows, r.FailedCount, r.Duration)
}

// submitFunc delivers one mapped lead. The CSV importer stays independent
// of the transport; main wires it to the gateway or to a dry-run sink.
type submitFunc func(ctx context.Context, values leadform.FormValues) error

// LeadCSVImporter reads a CSV of leads, maps each row to form values,
// validates them against the schema patterns and submits them one by one.
type LeadCSVImporter struct {
	schema *leadform.FormSchema
	mapper CSVToLeadMapper
	submit submitFunc
}

// NewLeadCSVImporter creates a new importer.
func NewLeadCSVImporter(schema *leadform.FormSchema, mapper CSVToLeadMapper, submit submitFunc) *LeadCSVImporter {
	return &LeadCSVImporter{schema: schema, mapper: mapper, submit: submit}
}

// ImportFromFile imports leads from a CSV file.
func (i *LeadCSVImporter) ImportFromFile(ctx context.Context, filePath string) (*ImportResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return i.ImportFromReader(ctx, file)
}

// ImportFromReader imports leads from a CSV stream. The first row is the
// header; every following row becomes one submission. Row failures are
// collected, not fatal.
func (i *LeadCSVImporter) ImportFromReader(ctx context.Context, r io.Reader) (*ImportResult, error) {
	started := time.Now()
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	result := &ImportResult{}
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.TotalRows++
			result.FailedCount++
			result.Errors = append(result.Errors, &ImportError{RowNumber: rowNum, Reason: err.Error()})
			continue
		}
		result.TotalRows++

		record := make(map[string]string, len(header))
		for c, name := range header {
			if c < len(row) {
				record[name] = row[c]
			}
		}

		values, err := i.mapper.MapRecord(record)
		if err != nil {
			result.FailedCount++
			if mapErr, ok := err.(*MappingError); ok {
				result.Errors = append(result.Errors, &ImportError{
					RowNumber: rowNum,
					FieldID:   mapErr.FieldPath,
					RawValue:  mapErr.RawValue,
					Reason:    mapErr.Reason,
				})
			} else {
				result.Errors = append(result.Errors, &ImportError{RowNumber: rowNum, Reason: err.Error()})
			}
			continue
		}

		if importErr := i.validateRow(rowNum, values); importErr != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, importErr)
			continue
		}

		if err := i.submit(ctx, values); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, &ImportError{RowNumber: rowNum, Reason: err.Error()})
			continue
		}
		result.SuccessCount++

		if result.SuccessCount%100 == 0 {
			zap.S().Infow("import progress", "submitted", result.SuccessCount, "failed", result.FailedCount)
		}
	}

	result.Duration = time.Since(started)
	return result, nil
}

// validateRow runs the schema's pattern validation over a mapped row.
func (i *LeadCSVImporter) validateRow(rowNum int, values leadform.FormValues) *ImportError {
	for _, page := range i.schema.Pages {
		for _, field := range page.Fields {
			value, ok := values[field.ID]
			if !ok {
				continue
			}
			if msg := leadform.ValidateFieldValue(&field, value); msg != "" {
				raw := fmt.Sprintf("%v", value)
				return &ImportError{RowNumber: rowNum, FieldID: field.ID, RawValue: raw, Reason: msg}
			}
		}
	}
	return nil
}
