package entity

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema pairs a named JSON Schema with its compiled form. The schema is the
// single source of truth for what a row may look like; the struct types in
// this package are the Go projection of the same shape.
type Schema struct {
	name     string
	compiled *gojsonschema.Schema
}

// SchemaError reports the first constraints a value violated.
type SchemaError struct {
	Entity     string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("entity %s: schema violation: %s", e.Entity, strings.Join(e.Violations, "; "))
}

// MustCompile compiles a schema definition or panics. Called from package
// init only, so a bad definition fails at startup rather than per request.
func MustCompile(name, def string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def))
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return &Schema{name: name, compiled: s}
}

// Validate checks v against the schema. v is serialized through its json
// tags, so the struct and the schema see identical field names.
func (s *Schema) Validate(v any) error {
	res, err := s.compiled.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return fmt.Errorf("validate %s: %w", s.name, err)
	}
	if res.Valid() {
		return nil
	}
	viol := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		viol = append(viol, e.String())
	}
	return &SchemaError{Entity: s.name, Violations: viol}
}

// Name returns the entity name the schema validates.
func (s *Schema) Name() string { return s.name }
