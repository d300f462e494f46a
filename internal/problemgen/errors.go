package problemgen

import (
	"errors"
	"fmt"
)

// ParseErrorKind classifies why a model response was rejected.
type ParseErrorKind int

const (
	KindNoJSONFound ParseErrorKind = iota + 1
	KindMalformedJSON
	KindInvalidShape
	KindInvalidAnswerValue
)

// Sentinels matched by errors.Is against a *ParseError of the same kind.
var (
	ErrNoJSONFound        = errors.New("no JSON object found in response")
	ErrMalformedJSON      = errors.New("malformed JSON in response")
	ErrInvalidShape       = errors.New("response JSON has the wrong shape")
	ErrInvalidAnswerValue = errors.New("answer is not a finite number")
)

func (k ParseErrorKind) String() string {
	switch k {
	case KindNoJSONFound:
		return "no_json_found"
	case KindMalformedJSON:
		return "malformed_json"
	case KindInvalidShape:
		return "invalid_shape"
	case KindInvalidAnswerValue:
		return "invalid_answer_value"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", int(k))
	}
}

func (k ParseErrorKind) sentinel() error {
	switch k {
	case KindNoJSONFound:
		return ErrNoJSONFound
	case KindMalformedJSON:
		return ErrMalformedJSON
	case KindInvalidShape:
		return ErrInvalidShape
	case KindInvalidAnswerValue:
		return ErrInvalidAnswerValue
	}
	return nil
}

// ParseError is returned when a model response cannot be turned into a
// Problem. Raw holds the unmodified response text for logging; it is never
// meant for end users.
type ParseError struct {
	Kind ParseErrorKind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse problem: %s: %v", e.Kind.sentinel(), e.Err)
	}
	return fmt.Sprintf("parse problem: %s", e.Kind.sentinel())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *ParseError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func parseErr(kind ParseErrorKind, raw string, err error) *ParseError {
	return &ParseError{Kind: kind, Raw: raw, Err: err}
}
