package resolve

import (
	"errors"
	"fmt"
)

// ErrMalformedSchema is the only fatal resolution error: a dangling model
// reference or a container chain that never terminates.
var ErrMalformedSchema = errors.New("malformed schema")

// MalformedSchemaError names the offending reference and where it was found.
type MalformedSchemaError struct {
	Ref    string // model name or rendered type reference
	Where  string // e.g. "model Pet property tags", "operation addPet parameter body"
	Reason string
}

func (e *MalformedSchemaError) Error() string {
	msg := fmt.Sprintf("%s: %s %q", ErrMalformedSchema, e.Reason, e.Ref)
	if e.Where != "" {
		msg += " (" + e.Where + ")"
	}
	return msg
}

func (e *MalformedSchemaError) Unwrap() error { return ErrMalformedSchema }

// at returns a copy of err located at where, when err is a
// *MalformedSchemaError without a location.
func at(err error, where string) error {
	var mse *MalformedSchemaError
	if errors.As(err, &mse) && mse.Where == "" {
		cp := *mse
		cp.Where = where
		return &cp
	}
	return err
}
