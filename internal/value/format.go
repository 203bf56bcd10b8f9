package value

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// TimestampLayout renders timestamps with microsecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// String renders v for human-readable output. Nulls print as NULL.
func (v Value) String() string {
	if !v.valid {
		return "NULL"
	}
	if v.array {
		elems := v.AsElements()
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.AsBool())
	case KindInt64:
		return strconv.FormatInt(v.AsInt64(), 10)
	case KindFloat32:
		return strconv.FormatFloat(float64(v.AsFloat32()), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.AsBytes())
	case KindString, KindPgNumeric:
		return v.AsString()
	case KindDate:
		return v.AsDate().String()
	case KindTimestamp:
		return v.AsTimestamp().Format(TimestampLayout)
	case KindNumeric:
		return v.AsNumeric().String()
	}
	return ""
}

// MarshalJSON encodes nulls as null and NaN as the string "NaN". Numerics are
// emitted as strings to keep their precision, INT64 included.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	if v.array {
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range v.AsElements() {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}
	switch v.kind {
	case KindBool:
		return json.Marshal(v.AsBool())
	case KindInt64:
		return json.Marshal(strconv.FormatInt(v.AsInt64(), 10))
	case KindFloat32:
		f := float64(v.AsFloat32())
		if math.IsNaN(f) {
			return json.Marshal(NaNText)
		}
		return []byte(strconv.FormatFloat(f, 'g', -1, 32)), nil
	case KindFloat64:
		f := v.AsFloat64()
		if math.IsNaN(f) {
			return json.Marshal(NaNText)
		}
		return json.Marshal(f)
	case KindBytes:
		return json.Marshal(v.AsBytes())
	case KindTimestamp:
		return json.Marshal(v.AsTimestamp().Format(TimestampLayout))
	default:
		return json.Marshal(v.String())
	}
}
