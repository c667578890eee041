package script

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dotcommander/fieldkv/internal/models"
)

// Error codes carried by CommandError.
const (
	CodeInvalidCommand  = "INVALID_COMMAND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeUnknownVerb     = "UNKNOWN_VERB"
)

// ErrSkip is returned by Parse for blank and comment lines.
var ErrSkip = errors.New("nothing to execute")

// CommandError describes a script line that could not be executed. It
// satisfies models.RecoverableError so the JSON envelope carries the code.
type CommandError struct {
	Code    string
	Verb    string
	Arg     string
	Line    int
	Message string
	Usage   string
}

var _ models.RecoverableError = (*CommandError)(nil)

func (e *CommandError) Error() string {
	if e.Verb == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Verb, e.Message)
}

func (e *CommandError) ErrorCode() string { return e.Code }

func (e *CommandError) Context() map[string]string {
	ctx := map[string]string{}
	if e.Verb != "" {
		ctx["verb"] = e.Verb
	}
	if e.Arg != "" {
		ctx["arg"] = e.Arg
	}
	if e.Line > 0 {
		ctx["line"] = strconv.Itoa(e.Line)
	}
	return ctx
}

func (e *CommandError) SuggestedAction() string {
	switch e.Code {
	case CodeUnknownVerb:
		return "Run 'fieldkv schema' to list the supported verbs"
	case CodeInvalidArgument, CodeInvalidCommand:
		if e.Usage != "" {
			return "Usage: " + e.Usage
		}
		return "Check quoting and argument count"
	default:
		return ""
	}
}

// SlogAttrs exposes structured attributes for command error logging.
func (e *CommandError) SlogAttrs() []any {
	return []any{"error_code", e.Code, "verb", e.Verb, "line", e.Line}
}
