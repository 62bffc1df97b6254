package types

import appErr "github.com/planwise/engine/pkg/errors"

// FromAppError converts err into the wire error. Errors that are not
// AppErrors keep the unknown code and their message; callers decide
// whether that message is safe to show.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	if e, ok := appErr.As(err); ok {
		return &APIError{Code: string(e.Code), Message: e.Message}
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
}

// FieldErrorsFrom lifts a field-scoped AppError (Meta "field" and
// "reason") into the errors list.
func FieldErrorsFrom(err error) []FieldError {
	e, ok := appErr.As(err)
	if !ok || e.Meta == nil {
		return nil
	}
	field, _ := e.Meta["field"].(string)
	if field == "" {
		return nil
	}
	reason, _ := e.Meta["reason"].(string)
	if reason == "" {
		reason = string(e.Code)
	}
	return []FieldError{{Field: field, Message: e.Message, Code: reason}}
}
