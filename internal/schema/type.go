package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SizeUnbounded marks a column without a declared maximum length.
const SizeUnbounded int64 = -1

type Type struct {
	code Code
	elem *Type
}

func Scalar(code Code) Type {
	return Type{code: code}
}

// ArrayOf wraps elem in the array code of elem's dialect.
func ArrayOf(elem Type) Type {
	code := CodeArray
	if elem.code.Dialect() == DialectPostgreSQL {
		code = CodePgArray
	}
	e := elem
	return Type{code: code, elem: &e}
}

func (t Type) Code() Code {
	return t.code
}

// ArrayElementType is only meaningful when Code().IsArray().
func (t Type) ArrayElementType() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

func (t Type) String() string {
	if t.code.IsArray() {
		if t.elem == nil {
			return t.code.String() + "<?>"
		}
		return t.code.String() + "<" + t.elem.String() + ">"
	}
	return t.code.String()
}

// ParseType parses a column type as written in DDL of the given dialect.
// The returned size is the declared length, or SizeUnbounded.
func ParseType(dialect Dialect, raw string) (Type, int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Type{}, 0, errors.New("empty type")
	}
	switch dialect {
	case DialectGoogleSQL:
		return parseGoogleSQL(s, true)
	case DialectPostgreSQL:
		return parsePostgreSQL(s, true)
	default:
		return Type{}, 0, fmt.Errorf("unknown dialect: %q", dialect)
	}
}

func parseGoogleSQL(s string, allowArray bool) (Type, int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if strings.HasPrefix(upper, "ARRAY<") && strings.HasSuffix(upper, ">") {
		if !allowArray {
			return Type{}, 0, fmt.Errorf("nested array type: %s", s)
		}
		elem, size, err := parseGoogleSQL(upper[len("ARRAY<"):len(upper)-1], false)
		if err != nil {
			return Type{}, 0, err
		}
		return ArrayOf(elem), size, nil
	}

	name, length, err := splitLength(upper)
	if err != nil {
		return Type{}, 0, fmt.Errorf("type %s: %w", s, err)
	}
	var code Code
	switch name {
	case "BOOL":
		code = CodeBool
	case "INT64":
		code = CodeInt64
	case "FLOAT32":
		code = CodeFloat32
	case "FLOAT64":
		code = CodeFloat64
	case "BYTES":
		code = CodeBytes
	case "STRING":
		code = CodeString
	case "DATE":
		code = CodeDate
	case "TIMESTAMP":
		code = CodeTimestamp
	case "NUMERIC":
		code = CodeNumeric
	default:
		return Type{}, 0, fmt.Errorf("unknown googlesql type: %s", s)
	}
	if length != SizeUnbounded && code != CodeBytes && code != CodeString {
		return Type{}, 0, fmt.Errorf("type %s does not take a length", name)
	}
	return Scalar(code), length, nil
}

var pgNames = map[string]Code{
	"boolean":                  CodePgBool,
	"bool":                     CodePgBool,
	"bigint":                   CodePgInt8,
	"int8":                     CodePgInt8,
	"real":                     CodePgFloat4,
	"float4":                   CodePgFloat4,
	"double precision":         CodePgFloat8,
	"float8":                   CodePgFloat8,
	"bytea":                    CodePgBytea,
	"text":                     CodePgText,
	"character varying":        CodePgVarchar,
	"varchar":                  CodePgVarchar,
	"date":                     CodePgDate,
	"timestamp with time zone": CodePgTimestamptz,
	"timestamptz":              CodePgTimestamptz,
	"numeric":                  CodePgNumeric,
	"decimal":                  CodePgNumeric,
}

func parsePostgreSQL(s string, allowArray bool) (Type, int64, error) {
	lower := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if strings.HasSuffix(lower, "[]") {
		if !allowArray {
			return Type{}, 0, fmt.Errorf("nested array type: %s", s)
		}
		elem, size, err := parsePostgreSQL(strings.TrimSuffix(lower, "[]"), false)
		if err != nil {
			return Type{}, 0, err
		}
		return ArrayOf(elem), size, nil
	}

	name, length, err := splitLength(lower)
	if err != nil {
		return Type{}, 0, fmt.Errorf("type %s: %w", s, err)
	}
	code, ok := pgNames[name]
	if !ok {
		return Type{}, 0, fmt.Errorf("unknown postgresql type: %s", s)
	}
	if length != SizeUnbounded && code != CodePgVarchar {
		return Type{}, 0, fmt.Errorf("type %s does not take a length", name)
	}
	return Scalar(code), length, nil
}

// splitLength separates "NAME(n)" into its name and n. "MAX" and a missing
// length both yield SizeUnbounded.
func splitLength(s string) (string, int64, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return strings.TrimSpace(s), SizeUnbounded, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", 0, errors.New("unterminated length")
	}
	name := strings.TrimSpace(s[:open])
	arg := strings.TrimSpace(s[open+1 : len(s)-1])
	if strings.EqualFold(arg, "max") {
		return name, SizeUnbounded, nil
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("invalid length %q", arg)
	}
	return name, n, nil
}
