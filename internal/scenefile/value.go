package scenefile

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

type namedValue struct {
	name  string
	value interface{}
}

// objectValues converts an object or map value into Go values, in key
// order.
func objectValues(v cty.Value) ([]namedValue, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("want an object, got %s", ty.FriendlyName())
	}
	var values []namedValue
	for it := v.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		value, err := goValue(elem)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key.AsString(), err)
		}
		values = append(values, namedValue{name: key.AsString(), value: value})
	}
	return values, nil
}

// goValue converts v into the Go value a variant property holds: bool,
// int for whole numbers, float64, string, []interface{} or
// map[string]interface{}.
func goValue(v cty.Value) (interface{}, error) {
	if !v.IsKnown() {
		return nil, errors.New("value is not known")
	}
	if v.IsNull() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty == cty.Number:
		var i int
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		list := make([]interface{}, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			value, err := goValue(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil

	case ty.IsObjectType() || ty.IsMapType():
		values, err := objectValues(v)
		if err != nil {
			return nil, err
		}
		m := make(map[string]interface{}, len(values))
		for _, kv := range values {
			m[kv.name] = kv.value
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}
