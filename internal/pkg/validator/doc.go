// Package validator validates request and domain structs.
//
// Usecases depend on the Validator interface; V10Validator wraps
// go-playground/validator with English messages and the project tags
// `password` and `otc`.
package validator
