package main

import (
	"fmt"
	"strings"

	"github.com/tushar-indygen/leadform"
)

// FieldMapper defines the interface for transforming a CSV field value to a
// form field value.
type FieldMapper interface {
	// Map transforms a CSV string value to the target type.
	Map(csvValue string) (any, error)
}

// FieldMapping describes a single mapping from a CSV column to a form
// field. FieldPath is the field id, optionally dotted for composite fields
// (e.g. "address.city" patches the city sub-key of the address object).
type FieldMapping struct {
	CSVColumn string
	FieldPath string
	Mapper    FieldMapper
	Required  bool
}

// CSVToLeadMapper maps CSV records to form values for a lead workflow.
type CSVToLeadMapper interface {
	// Mappings returns all field mappings.
	Mappings() []FieldMapping

	// MapRecord transforms a CSV record (column -> value) into form
	// values keyed by field id.
	MapRecord(csvRecord map[string]string) (leadform.FormValues, error)
}

// MapperBuilder provides a fluent API for building lead mappers.
type MapperBuilder struct {
	mappings []FieldMapping
}

// NewMapperBuilder creates a new MapperBuilder.
func NewMapperBuilder() *MapperBuilder {
	return &MapperBuilder{mappings: make([]FieldMapping, 0)}
}

// Map adds a simple string mapping (identity transform).
func (b *MapperBuilder) Map(csvColumn, fieldPath string) *MapperBuilder {
	b.mappings = append(b.mappings, FieldMapping{
		CSVColumn: csvColumn,
		FieldPath: fieldPath,
		Mapper:    Identity(),
	})
	return b
}

// MapWith adds a mapping with a custom transformer.
func (b *MapperBuilder) MapWith(csvColumn, fieldPath string, mapper FieldMapper) *MapperBuilder {
	b.mappings = append(b.mappings, FieldMapping{
		CSVColumn: csvColumn,
		FieldPath: fieldPath,
		Mapper:    mapper,
	})
	return b
}

// Required adds a required field mapping (identity transform).
func (b *MapperBuilder) Required(csvColumn, fieldPath string) *MapperBuilder {
	b.mappings = append(b.mappings, FieldMapping{
		CSVColumn: csvColumn,
		FieldPath: fieldPath,
		Mapper:    Identity(),
		Required:  true,
	})
	return b
}

// Build creates the CSVToLeadMapper from the builder configuration.
func (b *MapperBuilder) Build() CSVToLeadMapper {
	return &leadMapper{mappings: b.mappings}
}

// NewSchemaMapper derives a mapper from a form schema: each field maps
// from a CSV column named after its id, required flags carried over.
// Numeric fields get float coercion, date fields get layout parsing,
// choice fields get option validation and lead_details maps its status.
func NewSchemaMapper(schema *leadform.FormSchema) CSVToLeadMapper {
	b := NewMapperBuilder()
	for _, page := range schema.Pages {
		for _, field := range page.Fields {
			if field.Type.IsInformational() {
				continue
			}
			var mapper FieldMapper
			switch {
			case field.Type == leadform.FieldTypeNumber,
				field.Type == leadform.FieldTypeSlider,
				field.Type == leadform.FieldTypeRating:
				mapper = ToFloat64()
			case field.Type == leadform.FieldTypeDate:
				mapper = ToDate("2006-01-02")
			case field.Type == leadform.FieldTypeLeadDetails:
				mapper = LeadStatus()
			case len(field.Options) > 0:
				mapper = Enum(field.Options...)
			default:
				mapper = Trim()
			}
			path := field.ID
			if field.Type == leadform.FieldTypeLeadDetails {
				// lead_details maps its status sub-key
				path = field.ID + ".status"
			}
			b.mappings = append(b.mappings, FieldMapping{
				CSVColumn: field.ID,
				FieldPath: path,
				Mapper:    mapper,
				Required:  field.Required,
			})
		}
	}
	return b.Build()
}

// leadMapper implements CSVToLeadMapper.
type leadMapper struct {
	mappings []FieldMapping
}

func (m *leadMapper) Mappings() []FieldMapping {
	return m.mappings
}

func (m *leadMapper) MapRecord(csvRecord map[string]string) (leadform.FormValues, error) {
	result := make(leadform.FormValues)
	for _, mapping := range m.mappings {
		csvValue, exists := csvRecord[mapping.CSVColumn]

		if mapping.Required {
			if !exists || strings.TrimSpace(csvValue) == "" {
				return nil, &MappingError{
					CSVColumn: mapping.CSVColumn,
					FieldPath: mapping.FieldPath,
					RawValue:  csvValue,
					Reason:    "required field is empty",
				}
			}
		}

		// Skip empty optional fields
		if !exists || strings.TrimSpace(csvValue) == "" {
			continue
		}

		transformed, err := mapping.Mapper.Map(csvValue)
		if err != nil {
			return nil, &MappingError{
				CSVColumn: mapping.CSVColumn,
				FieldPath: mapping.FieldPath,
				RawValue:  csvValue,
				Reason:    err.Error(),
			}
		}
		if transformed == nil {
			continue
		}

		if err := setFieldValue(result, mapping.FieldPath, transformed); err != nil {
			return nil, &MappingError{
				CSVColumn: mapping.CSVColumn,
				FieldPath: mapping.FieldPath,
				RawValue:  csvValue,
				Reason:    err.Error(),
			}
		}
	}
	return result, nil
}

// MappingError represents an error that occurred during field mapping.
type MappingError struct {
	CSVColumn string
	FieldPath string
	RawValue  string
	Reason    string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("column %q -> field %q: value %q - %s",
		e.CSVColumn, e.FieldPath, e.RawValue, e.Reason)
}

// setFieldValue writes a value at a field path. A dotted path patches a
// sub-key inside a composite field's object value.
func setFieldValue(values leadform.FormValues, path string, value any) error {
	parts := strings.Split(path, ".")
	switch len(parts) {
	case 1:
		values[path] = value
		return nil
	case 2:
		obj, ok := values[parts[0]].(map[string]any)
		if !ok {
			if _, exists := values[parts[0]]; exists {
				return fmt.Errorf("field %q is not a composite value", parts[0])
			}
			obj = make(map[string]any)
			values[parts[0]] = obj
		}
		obj[parts[1]] = value
		return nil
	default:
		return fmt.Errorf("invalid field path %q", path)
	}
}
