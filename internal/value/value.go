// Package value holds the typed values produced by the generators. A Value is
// either a scalar of one Kind or an array of that Kind; both forms can be null,
// and array elements can be null individually.
package value

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt64
	KindFloat32
	KindFloat64
	KindBytes
	KindString
	KindDate
	KindTimestamp
	KindNumeric
	KindPgNumeric
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindBool:      "bool",
	KindInt64:     "int64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindBytes:     "bytes",
	KindString:    "string",
	KindDate:      "date",
	KindTimestamp: "timestamp",
	KindNumeric:   "numeric",
	KindPgNumeric: "pg_numeric",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// NaNText is the PostgreSQL numeric not-a-number literal.
const NaNText = "NaN"

type Value struct {
	kind  Kind
	array bool
	valid bool
	data  interface{}
}

func Bool(v bool) Value { return Value{kind: KindBool, valid: true, data: v} }
func Int64(v int64) Value { return Value{kind: KindInt64, valid: true, data: v} }
func Float32(v float32) Value { return Value{kind: KindFloat32, valid: true, data: v} }
func Float64(v float64) Value { return Value{kind: KindFloat64, valid: true, data: v} }
func Bytes(v []byte) Value { return Value{kind: KindBytes, valid: true, data: v} }
func String(v string) Value { return Value{kind: KindString, valid: true, data: v} }
func DateValue(v Date) Value { return Value{kind: KindDate, valid: true, data: v} }
func Timestamp(v time.Time) Value { return Value{kind: KindTimestamp, valid: true, data: v.UTC()} }
func Numeric(v decimal.Decimal) Value { return Value{kind: KindNumeric, valid: true, data: v} }
func PgNumeric(v string) Value { return Value{kind: KindPgNumeric, valid: true, data: v} }

// Null is the missing scalar of kind k.
func Null(k Kind) Value {
	return Value{kind: k}
}

// NullArray is a missing array whose element kind is k.
func NullArray(k Kind) Value {
	return Value{kind: k, array: true}
}

// Array builds an array of kind k. Every element must be a scalar of kind k;
// a mismatch is a programming error and panics.
func Array(k Kind, elems []Value) Value {
	for i, e := range elems {
		if e.array || e.kind != k {
			panic(fmt.Sprintf("value: array<%s> element %d has kind %s", k, i, e.TypeName()))
		}
	}
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: k, array: true, valid: true, data: elems}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsArray() bool { return v.array }
func (v Value) IsNull() bool { return !v.valid }

// TypeName renders the runtime variant, e.g. "int64" or "array<date>".
func (v Value) TypeName() string {
	if v.array {
		return "array<" + v.kind.String() + ">"
	}
	return v.kind.String()
}

// IsNaN reports whether v is a not-a-number float or PostgreSQL numeric.
func (v Value) IsNaN() bool {
	if !v.valid || v.array {
		return false
	}
	switch d := v.data.(type) {
	case float32:
		return math.IsNaN(float64(d))
	case float64:
		return math.IsNaN(d)
	case string:
		return v.kind == KindPgNumeric && d == NaNText
	}
	return false
}

func (v Value) AsBool() bool {
	x, _ := v.data.(bool)
	return x
}

func (v Value) AsInt64() int64 {
	x, _ := v.data.(int64)
	return x
}

func (v Value) AsFloat32() float32 {
	x, _ := v.data.(float32)
	return x
}

func (v Value) AsFloat64() float64 {
	x, _ := v.data.(float64)
	return x
}

func (v Value) AsBytes() []byte {
	x, _ := v.data.([]byte)
	return x
}

func (v Value) AsDate() Date {
	x, _ := v.data.(Date)
	return x
}

func (v Value) AsTimestamp() time.Time {
	x, _ := v.data.(time.Time)
	return x
}

func (v Value) AsNumeric() decimal.Decimal {
	x, _ := v.data.(decimal.Decimal)
	return x
}

func (v Value) AsElements() []Value {
	x, _ := v.data.([]Value)
	return x
}

// AsString returns the text of a String or PgNumeric value.
func (v Value) AsString() string {
	s, _ := v.data.(string)
	return s
}

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
