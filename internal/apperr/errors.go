package apperr

import (
	"sort"
	"strings"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// MissingFieldsError rejects a payload that lacks required fields. Received
// holds the data as it was extracted so automation callers can see what
// actually arrived.
type MissingFieldsError struct {
	Missing  []string
	Received map[string]any
}

func NewMissingFields(missing []string, received map[string]any) *MissingFieldsError {
	if received == nil {
		received = map[string]any{}
	}
	return &MissingFieldsError{Missing: missing, Received: received}
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Has reports whether field was reported missing.
func (e *MissingFieldsError) Has(field string) bool {
	for _, m := range e.Missing {
		if m == field {
			return true
		}
	}
	return false
}

// SortedMissing is Missing in lexical order, for stable comparisons.
func (e *MissingFieldsError) SortedMissing() []string {
	out := append([]string(nil), e.Missing...)
	sort.Strings(out)
	return out
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " " + e.ID + " not found"
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}
