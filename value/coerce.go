package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/valtree/schema"
)

// coerce converts v to the representation of a primitive of type t:
// string, float64 or bool. nil becomes the schema default.
func coerce(t schema.Type, v any, s *schema.Schema) any {
	if v == nil {
		if s == nil {
			return zero(t)
		}
		d := s.DefaultValue()
		if d == nil {
			return zero(t)
		}
		return coerce(t, d, nil)
	}
	switch t {
	case schema.StringType:
		return ToString(v)
	case schema.NumberType:
		if f, ok := ToFloat(v); ok {
			return f
		}
		switch x := v.(type) {
		case bool:
			if x {
				return float64(1)
			}
			return float64(0)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err == nil {
				return f
			}
		}
		return coerce(t, nil, s)
	case schema.BoolType:
		switch x := v.(type) {
		case bool:
			return x
		case string:
			b, err := strconv.ParseBool(x)
			if err == nil {
				return b
			}
			return x != ""
		}
		if f, ok := ToFloat(v); ok {
			return f != 0 && !math.IsNaN(f)
		}
		return coerce(t, nil, s)
	}
	return v
}

func zero(t schema.Type) any {
	switch t {
	case schema.StringType:
		return ""
	case schema.NumberType:
		return float64(0)
	case schema.BoolType:
		return false
	}
	return nil
}

// Conforms reports whether v already has the representation of type t, so
// that storing it needs no coercion.
func Conforms(t schema.Type, v any) bool {
	switch t {
	case schema.StringType:
		_, ok := v.(string)
		return ok
	case schema.NumberType:
		_, ok := ToFloat(v)
		return ok
	case schema.BoolType:
		_, ok := v.(bool)
		return ok
	case schema.ObjectType:
		_, ok := v.(map[string]any)
		return ok
	case schema.ArrayType:
		_, ok := v.([]any)
		return ok
	}
	return false
}

// ToFloat converts any Go numeric kind to float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// ToString renders v the way a string-typed field stores it: numbers in
// shortest form, booleans as true/false, objects and arrays as JSON.
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case map[string]any, []any:
		d, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(d)
	}
	if f, ok := ToFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// sameValue compares primitive representations, treating NaN as equal to
// itself.
func sameValue(a, b any) bool {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok {
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	}
	return a == b
}
