// Package errutil classifies failures into the kinds the orchestrators
// branch on. Remote-API string discrimination happens once, at the client
// boundary, and is carried from there as a structured kind.
package errutil

import "errors"

type Kind uint32

const (
	KindUnknown Kind = iota
	KindValidation
	KindConnectivity
	KindConflict
	KindNotFound
)

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string {
	return e.err.Error()
}

func (e *kindError) Unwrap() error {
	return e.err
}

func withKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

func ValidationError(err error) error {
	return withKind(KindValidation, err)
}

func ConnectivityError(err error) error {
	return withKind(KindConnectivity, err)
}

// ConflictError marks a remote "name already in use" create failure,
// which the upsert protocol recovers from locally.
func ConflictError(err error) error {
	return withKind(KindConflict, err)
}

func NotFoundError(err error) error {
	return withKind(KindNotFound, err)
}

func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
