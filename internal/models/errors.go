package models

// RecoverableError is implemented by errors that carry a stable code, the
// context needed to locate the failure, and a hint for fixing the input. The
// script engine produces them and the output package renders them; this
// interface lives here so neither imports the other.
type RecoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}
