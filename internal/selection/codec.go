package selection

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Separator joins encoded fields.
	Separator = ","
	// Placeholder stands in for an absent field.
	Placeholder = " "
	// Substitute replaces Separator in values made encodable by Escape.
	Substitute = ";"

	callFields = 3 * SlotCount
	deptFields = 2
)

var (
	// ErrMalformed is returned when an encoded value has the wrong arity.
	ErrMalformed = errors.New("selection: malformed encoding")
	// ErrSeparatorInValue is returned when a present value cannot be encoded
	// without breaking the field count.
	ErrSeparatorInValue = errors.New("selection: value contains separator")
)

// EncodeCalls joins the nine slot fields in slot order, status first.
func EncodeCalls(calls [SlotCount]ActiveCall) (string, error) {
	fields := make([]Field, 0, callFields)
	for _, c := range calls {
		fields = append(fields, c.Status, c.Description, c.Recipient)
	}
	return encode(fields)
}

// DecodeCalls is the inverse of EncodeCalls. Any failure returns the
// all-absent value together with the error.
func DecodeCalls(s string) ([SlotCount]ActiveCall, error) {
	var calls [SlotCount]ActiveCall
	fields, err := decode(s, callFields)
	if err != nil {
		return calls, err
	}
	for i := range calls {
		calls[i] = ActiveCall{
			Status:      fields[3*i],
			Description: fields[3*i+1],
			Recipient:   fields[3*i+2],
		}
	}
	return calls, nil
}

// EncodeDepartment joins name and id.
func EncodeDepartment(d ActiveDepartment) (string, error) {
	return encode([]Field{d.Name, d.ID})
}

// DecodeDepartment is the inverse of EncodeDepartment.
func DecodeDepartment(s string) (ActiveDepartment, error) {
	fields, err := decode(s, deptFields)
	if err != nil {
		return ActiveDepartment{}, err
	}
	return ActiveDepartment{Name: fields[0], ID: fields[1]}, nil
}

// Escape replaces every Separator in v with Substitute.
func Escape(v string) string { return strings.ReplaceAll(v, Separator, Substitute) }

func (f Field) escaped() Field {
	if !f.Present {
		return f
	}
	return Some(Escape(f.Value))
}

// Escaped returns c with every present field passed through Escape, so it
// always encodes.
func (c ActiveCall) Escaped() ActiveCall {
	return ActiveCall{
		Status:      c.Status.escaped(),
		Description: c.Description.escaped(),
		Recipient:   c.Recipient.escaped(),
	}
}

// Escaped returns d with every present field passed through Escape.
func (d ActiveDepartment) Escaped() ActiveDepartment {
	return ActiveDepartment{Name: d.Name.escaped(), ID: d.ID.escaped()}
}

func encode(fields []Field) (string, error) {
	tokens := make([]string, len(fields))
	for i, f := range fields {
		if !f.Present {
			tokens[i] = Placeholder
			continue
		}
		if strings.Contains(f.Value, Separator) {
			return "", fmt.Errorf("%w: field %d %q", ErrSeparatorInValue, i, f.Value)
		}
		tokens[i] = f.Value
	}
	return strings.Join(tokens, Separator), nil
}

func decode(s string, n int) ([]Field, error) {
	tokens := strings.Split(s, Separator)
	if len(tokens) != n {
		return nil, fmt.Errorf("%w: got %d fields, want %d", ErrMalformed, len(tokens), n)
	}
	fields := make([]Field, n)
	for i, tok := range tokens {
		if tok == Placeholder {
			continue
		}
		fields[i] = Some(tok)
	}
	return fields, nil
}
