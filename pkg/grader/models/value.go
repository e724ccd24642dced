package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ValueKind identifies the type held by a Value.
type ValueKind string

const (
	// KindEmpty is a blank cell.
	KindEmpty ValueKind = "empty"
	// KindNumber is a numeric cell.
	KindNumber ValueKind = "number"
	// KindText is a string cell.
	KindText ValueKind = "text"
	// KindBool is a boolean cell.
	KindBool ValueKind = "bool"
	// KindDate is an ISO 8601 date cell.
	KindDate ValueKind = "date"
)

// Value is a typed cell value.
type Value struct {
	Kind ValueKind
	Num  float64
	Text string
	Bool bool
	Time time.Time
}

// Empty returns the blank value.
func Empty() Value { return Value{Kind: KindEmpty} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Text returns a string value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Date returns a date value.
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// IsEmpty reports whether the value is blank.
func (v Value) IsEmpty() bool { return v.Kind == KindEmpty || v.Kind == "" }

// Float returns the value as a number. Text holding a number converts too.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String renders the value the way it appears in feedback.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Text
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindDate:
		return v.Time.Format("2006-01-02")
	}
	return "None"
}

// Interface returns the value as a plain Go value (nil when empty).
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindText:
		return v.Text
	case KindBool:
		return v.Bool
	case KindDate:
		return v.Time
	}
	return nil
}

// MarshalJSON encodes the value as its plain JSON equivalent.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalYAML decodes a YAML scalar using its resolved tag:
// numbers become KindNumber, booleans KindBool, null KindEmpty and anything
// else KindText. Quoted numbers stay text.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*v = Empty()
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = Number(f)
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = Bool(b)
	case "!!timestamp":
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return err
		}
		*v = Date(t)
	default:
		*v = Text(node.Value)
	}
	return nil
}
