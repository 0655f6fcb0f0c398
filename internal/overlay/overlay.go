// Package overlay builds the interactive fill controls a signer sees on
// top of a rendered page and applies their value changes.
//
// Values cross the wire as strings. Booleans use the literals "true" and
// "false"; anything else counts as false. The overlay decodes them once,
// works with real booleans internally and re-encodes on the way out.
package overlay

import (
	"fmt"

	"github.com/pdfforms/fieldplacer/internal/field"
	"github.com/pdfforms/fieldplacer/internal/geometry"
	"github.com/pdfforms/fieldplacer/internal/render"
)

const (
	ValueTrue  = "true"
	ValueFalse = "false"
)

func decodeBool(s string) bool {
	return s == ValueTrue
}

func encodeBool(b bool) string {
	if b {
		return ValueTrue
	}
	return ValueFalse
}

// Kind selects which input widget a control renders as.
type Kind string

const (
	KindText     Kind = "text"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
)

// Control is one positioned input on a rendered page. Rect is in render
// space and is recomputed on every build so zoom changes never leave a
// control behind.
type Control struct {
	FieldName string               `json:"field_name"`
	Kind      Kind                 `json:"kind"`
	Label     string               `json:"label"`
	Page      int                  `json:"page"`
	Rect      geometry.RenderRect  `json:"rect"`
	Value     string               `json:"value"`
	Checked   bool                 `json:"checked"`
	GroupName string               `json:"group_name,omitempty"`
}

// ValueSet holds the signer's in-progress values keyed by field name.
// It is the single owner of radio exclusivity: checking one member of a
// group unchecks the rest in the same update.
type ValueSet map[string]string

// Resolve returns the effective value for a field: an entry in the set
// wins, then the value persisted on the field, then the type's zero
// value.
func (v ValueSet) Resolve(f field.Field) string {
	if val, ok := v[f.FieldName]; ok {
		return val
	}
	if f.CurrentValue != "" {
		return f.CurrentValue
	}
	if f.Type == field.TypeCheckbox || f.Type == field.TypeRadio {
		return ValueFalse
	}
	return ""
}

// Apply records a value change. fields must contain the field being
// changed; for radio fields it must also contain the group siblings so
// they can be reset.
func (v ValueSet) Apply(fields []field.Field, fieldName, value string) error {
	var target *field.Field
	for i := range fields {
		if fields[i].FieldName == fieldName {
			target = &fields[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("unknown field %q", fieldName)
	}

	switch target.Type {
	case field.TypeText:
		v[fieldName] = value
	case field.TypeCheckbox:
		v[fieldName] = encodeBool(decodeBool(value))
	case field.TypeRadio:
		checked := decodeBool(value)
		v[fieldName] = encodeBool(checked)
		if !checked {
			return nil
		}
		for i := range fields {
			sibling := &fields[i]
			if sibling.FieldName == fieldName {
				continue
			}
			if sibling.Type == field.TypeRadio && sibling.GroupName == target.GroupName {
				v[sibling.FieldName] = ValueFalse
			}
		}
	default:
		return fmt.Errorf("field %q has unsupported type %q", fieldName, target.Type)
	}

	return nil
}

// Build produces the controls for the page described by metrics. Fields
// on other pages are skipped. Geometry is projected into render space
// fresh on every call.
func Build(fields []field.Field, metrics render.PageMetrics, values ValueSet) []Control {
	var controls []Control

	for i := range fields {
		f := &fields[i]
		if f.Page != metrics.Page {
			continue
		}

		c := Control{
			FieldName: f.FieldName,
			Kind:      Kind(f.Type),
			Label:     f.Label,
			Page:      f.Page,
			Rect:      geometry.ToRenderSpace(f.Rect, metrics.ZoomFactor, metrics.PageHeightPoints),
			GroupName: f.GroupName,
		}

		resolved := values.Resolve(*f)
		switch f.Type {
		case field.TypeText:
			c.Value = resolved
		default:
			c.Checked = decodeBool(resolved)
			c.Value = encodeBool(c.Checked)
		}

		controls = append(controls, c)
	}

	return controls
}

// Snapshot encodes the current values for every given field, filling in
// resolved defaults for fields the signer never touched. The result is
// what goes back over the wire on submission.
func (v ValueSet) Snapshot(fields []field.Field) map[string]string {
	out := make(map[string]string, len(fields))
	for i := range fields {
		out[fields[i].FieldName] = v.Resolve(fields[i])
	}
	return out
}
