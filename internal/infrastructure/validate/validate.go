package validate

import "strings"

// FieldError field error to be nested by other errors
type FieldError struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// NewFieldError create new field error
func NewFieldError(domain string, reason string) *FieldError {
	return &FieldError{domain, reason}
}

func (fe *FieldError) Error() string {
	return fe.Reason
}

// Validator .
type Validator interface {
	Struct(s interface{}) []*FieldError
	Empty(varName string, s interface{}) []*FieldError
	OneOf(varName string, s string, allowed []string) *FieldError
}

// Errors joins field errors into one error, nil if there is none
type Errors []*FieldError

func (es Errors) Error() string {
	reasons := make([]string, 0, len(es))
	for _, e := range es {
		reasons = append(reasons, e.Reason)
	}
	return strings.Join(reasons, "; ")
}

// Join collects non-nil field errors
func Join(errs ...*FieldError) Errors {
	var result Errors
	for _, e := range errs {
		if e != nil {
			result = append(result, e)
		}
	}
	return result
}

// Err nil when es is empty, es otherwise
func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}
