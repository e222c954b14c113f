// Package ctyconv converts HCL/cty values into plain Go values. It backs both
// structured literals in source text and the globals block of the config file.
package ctyconv

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	hcljson "github.com/hashicorp/hcl/v2/json"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeLiteral parses a brace-delimited literal such as {"to": "x", "n": 2}
// and returns its Go representation. JSON is decoded first, with string
// contents kept verbatim. A literal that is not JSON is read as an HCL
// object with `=` separators. Variable references are rejected.
func DecodeLiteral(src string) (any, error) {
	val, jsonDiags := decodeJSON(src)
	if !jsonDiags.HasErrors() {
		return ToNative(val)
	}
	val, diags := decodeNative(src)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid structured literal: %s", jsonDiags.Error())
	}
	return ToNative(val)
}

// decodeJSON evaluates src without an evaluation context, so "${" and "%{"
// sequences inside strings stay literal text.
func decodeJSON(src string) (cty.Value, hcl.Diagnostics) {
	expr, diags := hcljson.ParseExpression([]byte(src), "literal")
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return expr.Value(nil)
}

func decodeNative(src string) (cty.Value, hcl.Diagnostics) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "literal", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return expr.Value(nil)
}

// ToNative recursively converts a cty.Value to its most natural Go
// counterpart: string, float64, bool, []any or map[string]any.
func ToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type: %s", ty.FriendlyName())
	}
}
