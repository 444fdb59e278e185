package validator

// Validator validates request and domain structs.
//
// Implementations return a ValidationError-compatible error (see
// V10ValidationError) when one or more fields fail.
type Validator interface {
	Validate(data any) error
}
