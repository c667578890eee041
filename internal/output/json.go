package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync/atomic"
)

// recoverableError mirrors models.RecoverableError so output does not import
// models.
type recoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}

// Response represents a standard JSON response
type Response struct {
	SchemaVersion   string            `json:"schema_version"`
	Success         bool              `json:"success"`
	Data            interface{}       `json:"data,omitempty"`
	Error           string            `json:"error,omitempty"`
	ErrorCode       string            `json:"error_code,omitempty"`
	ErrorContext    map[string]string `json:"error_context,omitempty"`
	SuggestedAction string            `json:"suggested_action,omitempty"`
}

// Success wraps a successful response with data
func Success(data interface{}) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Error wraps an error in a response. Recoverable errors also carry their
// code, context and suggested action.
func Error(err error) Response {
	resp := Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}
	var re recoverableError
	if errors.As(err, &re) {
		resp.ErrorCode = re.ErrorCode()
		resp.ErrorContext = re.Context()
		resp.SuggestedAction = re.SuggestedAction()
	}
	return resp
}

// Config controls where and how responses are written.
type Config struct {
	Writer io.Writer
	Pretty bool
}

var forcePretty atomic.Bool

// SetPretty forces indented JSON for every DefaultConfig, regardless of the
// environment. Wired to --pretty and the pretty_json setting.
func SetPretty(v bool) {
	forcePretty.Store(v)
}

// DefaultConfig writes compact JSON to stdout. Indented JSON is enabled with
// FIELDKV_PRETTY_JSON=1 (or true) or SetPretty.
func DefaultConfig() Config {
	env := os.Getenv("FIELDKV_PRETTY_JSON")
	return Config{
		Writer: os.Stdout,
		Pretty: forcePretty.Load() || env == "1" || env == "true",
	}
}

// PrintWith encodes v as one JSON document followed by a newline.
func PrintWith(cfg Config, v interface{}) error {
	enc := json.NewEncoder(cfg.Writer)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Print prints a value as JSON to stdout
func Print(v interface{}) error {
	return PrintWith(DefaultConfig(), v)
}

// PrintSuccess prints a success response
func PrintSuccess(data interface{}) error {
	return Print(Success(data))
}

// PrintError prints an error response
func PrintError(err error) error {
	return Print(Error(err))
}
