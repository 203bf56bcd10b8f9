package schema

type Dialect string

const (
	DialectGoogleSQL  Dialect = "googlesql"
	DialectPostgreSQL Dialect = "postgresql"
)

func (d Dialect) Valid() bool {
	return d == DialectGoogleSQL || d == DialectPostgreSQL
}

// Code identifies a logical column type. GoogleSQL and PostgreSQL codes live in
// separate ranges; Family folds them onto one semantic type.
type Code int

const (
	CodeUnspecified Code = iota

	CodeBool
	CodeInt64
	CodeFloat32
	CodeFloat64
	CodeBytes
	CodeString
	CodeDate
	CodeTimestamp
	CodeNumeric
	CodeArray

	CodePgBool
	CodePgInt8
	CodePgFloat4
	CodePgFloat8
	CodePgBytea
	CodePgText
	CodePgVarchar
	CodePgDate
	CodePgTimestamptz
	CodePgNumeric
	CodePgArray
)

var codeNames = map[Code]string{
	CodeBool:          "BOOL",
	CodeInt64:         "INT64",
	CodeFloat32:       "FLOAT32",
	CodeFloat64:       "FLOAT64",
	CodeBytes:         "BYTES",
	CodeString:        "STRING",
	CodeDate:          "DATE",
	CodeTimestamp:     "TIMESTAMP",
	CodeNumeric:       "NUMERIC",
	CodeArray:         "ARRAY",
	CodePgBool:        "PG_BOOL",
	CodePgInt8:        "PG_INT8",
	CodePgFloat4:      "PG_FLOAT4",
	CodePgFloat8:      "PG_FLOAT8",
	CodePgBytea:       "PG_BYTEA",
	CodePgText:        "PG_TEXT",
	CodePgVarchar:     "PG_VARCHAR",
	CodePgDate:        "PG_DATE",
	CodePgTimestamptz: "PG_TIMESTAMPTZ",
	CodePgNumeric:     "PG_NUMERIC",
	CodePgArray:       "PG_ARRAY",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNSPECIFIED"
}

func (c Code) IsArray() bool {
	return c == CodeArray || c == CodePgArray
}

func (c Code) Dialect() Dialect {
	if c >= CodePgBool {
		return DialectPostgreSQL
	}
	return DialectGoogleSQL
}

// Declared length ceilings: GoogleSQL STRING(n) counts characters, the rest
// count bytes.
const (
	MaxStringLength    int64 = 2621440
	MaxBytesLength     int64 = 10485760
	MaxPgVarcharLength int64 = 10485760
)

// MaxLength is the largest size a column of this code may declare, or 0 when
// the code takes no length.
func (c Code) MaxLength() int64 {
	switch c {
	case CodeString:
		return MaxStringLength
	case CodeBytes:
		return MaxBytesLength
	case CodePgVarchar, CodePgText, CodePgBytea:
		return MaxPgVarcharLength
	}
	return 0
}

// Family is the dialect-independent semantic type behind a Code.
type Family string

const (
	FamilyBool      Family = "bool"
	FamilyInt64     Family = "int64"
	FamilyFloat32   Family = "float32"
	FamilyFloat64   Family = "float64"
	FamilyBytes     Family = "bytes"
	FamilyString    Family = "string"
	FamilyDate      Family = "date"
	FamilyTimestamp Family = "timestamp"
	FamilyNumeric   Family = "numeric"
	FamilyPgNumeric Family = "pg_numeric"
)

var families = map[Code]Family{
	CodeBool:          FamilyBool,
	CodePgBool:        FamilyBool,
	CodeInt64:         FamilyInt64,
	CodePgInt8:        FamilyInt64,
	CodeFloat32:       FamilyFloat32,
	CodePgFloat4:      FamilyFloat32,
	CodeFloat64:       FamilyFloat64,
	CodePgFloat8:      FamilyFloat64,
	CodeBytes:         FamilyBytes,
	CodePgBytea:       FamilyBytes,
	CodeString:        FamilyString,
	CodePgText:        FamilyString,
	CodePgVarchar:     FamilyString,
	CodeDate:          FamilyDate,
	CodePgDate:        FamilyDate,
	CodeTimestamp:     FamilyTimestamp,
	CodePgTimestamptz: FamilyTimestamp,
	// NUMERIC and PG_NUMERIC are not aliases: PG_NUMERIC admits NaN and
	// arbitrary precision text.
	CodeNumeric:   FamilyNumeric,
	CodePgNumeric: FamilyPgNumeric,
}

// Family returns the scalar family of a non-array code.
func (c Code) Family() (Family, bool) {
	f, ok := families[c]
	return f, ok
}
