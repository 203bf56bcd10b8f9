package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmrzaf/colgen/internal/domain"
	"github.com/mmrzaf/colgen/internal/registry"
	"github.com/mmrzaf/colgen/internal/schema"
)

type Validator struct {
	genRegistry *registry.GeneratorRegistry
}

func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	return &Validator{genRegistry: genRegistry}
}

// identifier validation: allow simple SQL identifiers only, so names can be
// pasted into DDL by downstream tools.
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}

func (v *Validator) ValidateSchema(s *schema.Schema) error {
	if s.Name == "" {
		return errors.New("schema name is required")
	}
	if !s.Dialect.Valid() {
		return fmt.Errorf("invalid dialect: %q", s.Dialect)
	}
	if len(s.Tables) == 0 {
		return errors.New("schema must have at least one table")
	}

	tableNames := make(map[string]bool)
	for i := range s.Tables {
		table := &s.Tables[i]
		if err := v.validateTable(s.Dialect, table, tableNames); err != nil {
			return fmt.Errorf("table '%s': %w", table.Name, err)
		}
	}
	return nil
}

func (v *Validator) validateTable(dialect schema.Dialect, table *schema.TableDef, tableNames map[string]bool) error {
	if table.Name == "" {
		return errors.New("table name is required")
	}
	if !IsValidIdentifier(table.Name) {
		return fmt.Errorf("invalid table identifier: %s", table.Name)
	}
	if tableNames[table.Name] {
		return fmt.Errorf("duplicate table name: %s", table.Name)
	}
	tableNames[table.Name] = true

	if len(table.Columns) == 0 {
		return errors.New("table must have at least one column")
	}

	columnNames := make(map[string]bool)
	for _, col := range table.Columns {
		if err := v.validateColumn(dialect, col, columnNames); err != nil {
			return fmt.Errorf("column '%s': %w", col.Name, err)
		}
	}
	return nil
}

func (v *Validator) validateColumn(dialect schema.Dialect, def schema.ColumnDef, columnNames map[string]bool) error {
	if def.Name == "" {
		return errors.New("column name is required")
	}
	if !IsValidIdentifier(def.Name) {
		return fmt.Errorf("invalid column identifier: %s", def.Name)
	}
	if columnNames[def.Name] {
		return fmt.Errorf("duplicate column name: %s", def.Name)
	}
	columnNames[def.Name] = true

	col, err := def.Resolve(dialect)
	if err != nil {
		return err
	}
	if err := checkSize(col); err != nil {
		return err
	}
	return v.checkGenerator(col.Type)
}

// checkSize enforces the dialect's length ceiling; for arrays the size
// applies to the elements.
func checkSize(col schema.Column) error {
	code := col.Type.Code()
	if elem, ok := col.Type.ArrayElementType(); ok {
		code = elem.Code()
	}
	if limit := code.MaxLength(); limit > 0 && col.Size > limit {
		return fmt.Errorf("size %d exceeds the %s limit of %d", col.Size, code, limit)
	}
	return nil
}

// checkGenerator makes sure the registry can serve the type's family.
func (v *Validator) checkGenerator(t schema.Type) error {
	code := t.Code()
	if elem, ok := t.ArrayElementType(); ok {
		code = elem.Code()
	}
	if _, err := v.genRegistry.Lookup(code); err != nil {
		return fmt.Errorf("type %s: %w", t, err)
	}
	return nil
}

// ValidateSampleRequest checks a request in isolation; column overrides are
// matched against the table later, once the schema is loaded.
func (v *Validator) ValidateSampleRequest(req *domain.SampleRequest, maxRows int) error {
	sources := 0
	for _, set := range []bool{req.SchemaID != "", req.SchemaPath != "", req.Schema != nil} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return errors.New("one of schema_id, schema_path or schema must be provided")
	}
	if sources > 1 {
		return errors.New("only one of schema_id, schema_path or schema must be provided")
	}

	if req.Table == "" {
		return errors.New("table is required")
	}
	if !IsValidIdentifier(req.Table) {
		return fmt.Errorf("invalid table identifier: %s", req.Table)
	}

	if req.Rows <= 0 {
		return fmt.Errorf("rows must be > 0, got %d", req.Rows)
	}
	if maxRows > 0 && req.Rows > maxRows {
		return fmt.Errorf("rows must be <= %d, got %d", maxRows, req.Rows)
	}

	percents := []struct {
		name string
		p    *int
	}{
		{"null_threshold", req.NullThreshold},
		{"array_null_threshold", req.ArrayNullThreshold},
		{"nan_percent", req.NaNPercent},
	}
	for _, it := range percents {
		if it.p != nil && (*it.p < 0 || *it.p > 100) {
			return fmt.Errorf("%s must be within [0,100], got %d", it.name, *it.p)
		}
	}

	for _, name := range req.NotNullColumns {
		if !IsValidIdentifier(name) {
			return fmt.Errorf("invalid column name in not_null_columns: %s", name)
		}
	}

	if req.Format != "" && !domain.IsValidFormat(req.Format) {
		return fmt.Errorf("invalid format: %s", req.Format)
	}

	if req.Schema != nil {
		if err := v.ValidateSchema(req.Schema); err != nil {
			return fmt.Errorf("schema validation failed: %w", err)
		}
	}
	return nil
}
