package hcl

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/satcolor/internal/ctxlog"
)

// Converter moves values between HCL expressions, cty and Go.
type Converter struct{}

func NewConverter() *Converter {
	return &Converter{}
}

// DecodeAttributes evaluates every attribute of body and stores it in the
// field of target (a pointer to struct) whose cty tag matches the attribute
// name. Attributes without a matching field are an error.
func (c *Converter) DecodeAttributes(ctx context.Context, body hcl.Body, target any) error {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() || structVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a non-nil pointer to struct, got %T", target)
	}
	structVal = structVal.Elem()
	fields := make(map[string]reflect.Value, structVal.NumField())
	for i := 0; i < structVal.NumField(); i++ {
		if tag := structVal.Type().Field(i).Tag.Get("cty"); tag != "" {
			fields[tag] = structVal.Field(i)
		}
	}

	for name, attr := range attrs {
		field, ok := fields[name]
		if !ok {
			return &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported attribute",
				Detail:   fmt.Sprintf("An attribute named %q is not expected here.", name),
				Subject:  attr.NameRange.Ptr(),
			}
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		if val.IsNull() {
			continue
		}
		if err := c.decode(ctx, val, field.Addr().Interface()); err != nil {
			return fmt.Errorf("%s: attribute %q: %w", attr.Range, name, err)
		}
	}
	return nil
}

// decode converts val to the cty type implied by goVal and stores it there.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	logger := ctxlog.FromContext(ctx)

	impliedType, err := gocty.ImpliedType(reflect.ValueOf(goVal).Elem().Interface())
	if err != nil {
		return gocty.FromCtyValue(val, goVal)
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	if !val.Type().Equals(converted.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}
	return gocty.FromCtyValue(converted, goVal)
}

// ToCtyValue converts a native Go value into its cty equivalent.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
