package decoder

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaNotFound means the requested response type is not registered.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrFieldNotFound means a declared field's anchor is missing from the page.
	ErrFieldNotFound = errors.New("field not found")

	// ErrMalformedField means the anchor was found but its value could not be read.
	ErrMalformedField = errors.New("malformed field value")

	// ErrUnrecognizedResponse means the page matched no known signature or literal.
	ErrUnrecognizedResponse = errors.New("unrecognized device response")
)

// DecodeError reports which schema and field a decode failure belongs to.
// Kind is one of the package sentinels; Err is the underlying cause, if any.
type DecodeError struct {
	Schema string
	Field  string
	Kind   error
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	where := e.Schema
	if e.Field != "" {
		if where != "" {
			where += "."
		}
		where += e.Field
	}

	msg := e.Kind.Error()
	if where != "" {
		msg = fmt.Sprintf("%s: %s", where, msg)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fieldNotFound(schema, field string) error {
	return &DecodeError{Schema: schema, Field: field, Kind: ErrFieldNotFound}
}

func malformed(schema, field, detail string, err error) error {
	return &DecodeError{Schema: schema, Field: field, Kind: ErrMalformedField, Detail: detail, Err: err}
}
