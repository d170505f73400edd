// Package weberr decorates errors with what the HTTP layer needs: the body
// and status to answer with, and extra fields for the error log line.
package weberr

import "errors"

type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

func WithResponse(body interface{}, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

func WithFields(fields map[string]interface{}) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

// Response returns the outermost response attached to err.
func Response(err error) (body interface{}, status int, ok bool) {
	var re *responseError
	if errors.As(err, &re) {
		return re.body, re.status, true
	}
	return nil, 0, false
}

// Fields merges every field set attached along the chain, outer values win.
func Fields(err error) (map[string]interface{}, bool) {
	fields := map[string]interface{}{}
	found := false

	for err != nil {
		var fe *fieldsError
		if !errors.As(err, &fe) {
			break
		}
		for k, v := range fe.fields {
			if _, ok := fields[k]; !ok {
				fields[k] = v
			}
		}
		found = true
		err = fe.error
	}

	return fields, found
}

type responseError struct {
	error
	body   interface{}
	status int
}

func (e *responseError) Unwrap() error { return e.error }

type fieldsError struct {
	error
	fields map[string]interface{}
}

func (e *fieldsError) Unwrap() error { return e.error }
