package eval

import (
	"math"
	"reflect"

	"github.com/signadot/valtree/value"
)

// Aggregates take either a single list argument or the values as
// variadic arguments. An empty list yields 0.

func sum(params ...any) (any, error) {
	res := 0.0
	for _, f := range numbers(params) {
		res += f
	}
	return res, nil
}

func avg(params ...any) (any, error) {
	fs := numbers(params)
	if len(fs) == 0 {
		return 0.0, nil
	}
	res := 0.0
	for _, f := range fs {
		res += f
	}
	return res / float64(len(fs)), nil
}

func minOf(params ...any) (any, error) {
	fs := numbers(params)
	if len(fs) == 0 {
		return 0.0, nil
	}
	res := math.Inf(1)
	for _, f := range fs {
		res = math.Min(res, f)
	}
	return res, nil
}

func maxOf(params ...any) (any, error) {
	fs := numbers(params)
	if len(fs) == 0 {
		return 0.0, nil
	}
	res := math.Inf(-1)
	for _, f := range fs {
		res = math.Max(res, f)
	}
	return res, nil
}

// count counts elements of any kind, objects included.
func count(params ...any) (any, error) {
	return float64(len(flatten(params))), nil
}

func flatten(params []any) []any {
	if len(params) != 1 {
		return params
	}
	switch x := params[0].(type) {
	case nil:
		return nil
	case []any:
		return x
	}
	rv := reflect.ValueOf(params[0])
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return params
	}
	res := make([]any, rv.Len())
	for i := range res {
		res[i] = rv.Index(i).Interface()
	}
	return res
}

// numbers returns the numeric elements; other kinds are skipped.
func numbers(params []any) []float64 {
	vals := flatten(params)
	res := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := value.ToFloat(v); ok {
			res = append(res, f)
		}
	}
	return res
}
