// Package validation validates decoded request payloads.
package validation

// Validator returns field level error messages keyed by the json field name,
// or nil when the struct is valid.
type Validator interface {
	ValidateStruct(s any) map[string]string
}
