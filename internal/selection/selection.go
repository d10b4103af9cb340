// Package selection holds the call and department choices made on the console
// and their flat string encoding in the key-value store.
package selection

import "andon-console/internal/record"

// SlotCount is the number of call buttons on the console.
const SlotCount = 3

// Field is an optional string. An absent field is distinct from an empty one.
type Field struct {
	Value   string
	Present bool
}

// Some returns a present field holding v.
func Some(v string) Field { return Field{Value: v, Present: true} }

// Or returns the value, or fallback when the field is absent.
func (f Field) Or(fallback string) string {
	if !f.Present {
		return fallback
	}
	return f.Value
}

// ActiveCall is the call configured on one call button.
type ActiveCall struct {
	Status      Field
	Description Field
	Recipient   Field
}

// CallFrom copies every field of r into a configured slot value.
func CallFrom(r record.CallRecord) ActiveCall {
	return ActiveCall{
		Status:      Some(r.Status),
		Description: Some(r.Description),
		Recipient:   Some(r.Recipient),
	}
}

// Configured reports whether the slot has a status set.
func (c ActiveCall) Configured() bool { return c.Status.Present }

// ActiveDepartment is the department the console reports under.
type ActiveDepartment struct {
	Name Field
	ID   Field
}

// Configured reports whether a department id is set.
func (d ActiveDepartment) Configured() bool { return d.ID.Present }
