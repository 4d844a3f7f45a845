package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FieldKind tags the variant held by a FieldValue.
type FieldKind int

const (
	KindNull FieldKind = iota
	KindBool
	KindNumber
	KindString
	KindDate
	KindObject
	KindArray
)

// String returns the kind name for error messages.
func (k FieldKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// FieldValue is a tagged union over the JSON value kinds a custom field
// can hold. The date container object {value, timezone} decodes as
// KindDate rather than KindObject.
type FieldValue struct {
	kind    FieldKind
	number  json.Number
	str     string
	boolean bool
	date    Date
	object  map[string]FieldValue
	array   []FieldValue
}

// Kind returns the variant tag.
func (v FieldValue) Kind() FieldKind {
	return v.kind
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw interface{}

	err := decoder.Decode(&raw)
	if err != nil {
		return fmt.Errorf("decoding field value: %w", err)
	}

	*v = fromRaw(raw, data)

	return nil
}

// MarshalJSON implements json.Marshaler.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	var out interface{}

	switch v.kind {
	case KindNull:
		out = nil
	case KindBool:
		out = v.boolean
	case KindNumber:
		out = v.number
	case KindString:
		out = v.str
	case KindDate:
		return v.date.MarshalJSON()
	case KindObject:
		out = v.object
	case KindArray:
		out = v.array
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding field value: %w", err)
	}

	return data, nil
}

func fromRaw(raw interface{}, data []byte) FieldValue {
	switch typed := raw.(type) {
	case nil:
		return FieldValue{kind: KindNull}
	case bool:
		return FieldValue{kind: KindBool, boolean: typed}
	case json.Number:
		return FieldValue{kind: KindNumber, number: typed}
	case string:
		return FieldValue{kind: KindString, str: typed}
	case map[string]interface{}:
		if isDateContainer(typed) {
			var date Date
			if err := date.UnmarshalJSON(data); err == nil {
				return FieldValue{kind: KindDate, date: date}
			}
		}

		object := make(map[string]FieldValue, len(typed))

		for key, value := range typed {
			sub, _ := json.Marshal(value)
			object[key] = fromRaw(value, sub)
		}

		return FieldValue{kind: KindObject, object: object}
	case []interface{}:
		array := make([]FieldValue, 0, len(typed))

		for _, value := range typed {
			sub, _ := json.Marshal(value)
			array = append(array, fromRaw(value, sub))
		}

		return FieldValue{kind: KindArray, array: array}
	default:
		return FieldValue{kind: KindNull}
	}
}

func isDateContainer(object map[string]interface{}) bool {
	if len(object) != 2 {
		return false
	}

	_, hasValue := object["value"].(string)
	_, hasTimezone := object["timezone"].(string)

	return hasValue && hasTimezone
}

// Fields holds the custom fields of an item keyed by field name.
type Fields map[string]FieldValue

// Get returns the named field value and whether it was present.
func (f Fields) Get(name string) (FieldValue, bool) {
	value, ok := f[name]

	return value, ok
}

// FieldAs extracts a field value as a concrete Go type. Numeric variants
// are mutually coercible across int64, uint64, and float64; string, date,
// bool, object, and array values are not coercible to each other. A
// mismatch fails with ErrDataConversionFailed.
//
//nolint:cyclop // Exhaustive per-type conversion table.
func FieldAs[T any](value FieldValue) (T, error) {
	var zero T

	switch out := any(&zero).(type) {
	case *bool:
		if value.kind != KindBool {
			return zero, conversionError(value.kind, "bool")
		}

		*out = value.boolean
	case *string:
		if value.kind != KindString {
			return zero, conversionError(value.kind, "string")
		}

		*out = value.str
	case *int64:
		number, err := numberOf(value)
		if err != nil {
			return zero, err
		}

		parsed, err := number.Int64()
		if err != nil {
			float, ferr := number.Float64()
			if ferr != nil || float != math.Trunc(float) ||
				float < math.MinInt64 || float >= math.MaxInt64 {
				return zero, conversionError(value.kind, "int64")
			}

			parsed = int64(float)
		}

		*out = parsed
	case *uint64:
		number, err := numberOf(value)
		if err != nil {
			return zero, err
		}

		parsed, err := strconv.ParseUint(number.String(), 10, 64)
		if err != nil {
			float, ferr := number.Float64()
			if ferr != nil || float < 0 || float != math.Trunc(float) || float >= math.MaxUint64 {
				return zero, conversionError(value.kind, "uint64")
			}

			parsed = uint64(float)
		}

		*out = parsed
	case *float64:
		number, err := numberOf(value)
		if err != nil {
			return zero, err
		}

		parsed, err := number.Float64()
		if err != nil {
			return zero, conversionError(value.kind, "float64")
		}

		*out = parsed
	case *Date:
		if value.kind != KindDate {
			return zero, conversionError(value.kind, "date")
		}

		*out = value.date
	case *map[string]FieldValue:
		if value.kind != KindObject {
			return zero, conversionError(value.kind, "object")
		}

		*out = value.object
	case *[]FieldValue:
		if value.kind != KindArray {
			return zero, conversionError(value.kind, "array")
		}

		*out = value.array
	default:
		return zero, fmt.Errorf("%w: unsupported target type %T", ErrDataConversionFailed, zero)
	}

	return zero, nil
}

// GetField looks up a named field and extracts it as T in one step.
func GetField[T any](fields Fields, name string) (T, error) {
	value, ok := fields[name]
	if !ok {
		var zero T

		return zero, fmt.Errorf("%w: field %q not present", ErrDataConversionFailed, name)
	}

	return FieldAs[T](value)
}

func numberOf(value FieldValue) (json.Number, error) {
	if value.kind != KindNumber {
		return "", conversionError(value.kind, "number")
	}

	return value.number, nil
}

func conversionError(from FieldKind, to string) error {
	return fmt.Errorf("%w: cannot convert %s field to %s", ErrDataConversionFailed, from, to)
}
