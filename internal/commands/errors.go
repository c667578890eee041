package commands

import (
	"errors"
	"log/slog"

	"github.com/dotcommander/fieldkv/internal/output"
)

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

func (e printedError) Unwrap() error { return e.err }

// cmdErr prints err as a JSON error response, logs it once and returns a
// printedError so Execute does not report it again.
func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	_ = output.PrintError(err)

	attrs := []any{"error", err.Error()}
	type slogAttrError interface {
		SlogAttrs() []any
	}
	var detailed slogAttrError
	if errors.As(err, &detailed) {
		attrs = append(attrs, detailed.SlogAttrs()...)
	}
	slog.Error("command error", attrs...)
	return printedError{err: err}
}
