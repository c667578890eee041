package script

import (
	"strings"

	"github.com/google/shlex"
)

// Command is one parsed script line.
type Command struct {
	Line int
	Raw  string
	Verb string
	Args []string
}

// Parse splits a line into a verb and its arguments using shell word rules:
// whitespace separates tokens, single and double quotes group them, a
// backslash escapes the next character and a # at the start of a token
// comments out the rest of the line. Blank lines and lines starting with #
// return ErrSkip. Bytes that are not valid UTF-8 pass through unchanged.
func Parse(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Command{}, ErrSkip
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return Command{Raw: trimmed}, err
	}
	return Command{
		Raw:  trimmed,
		Verb: strings.ToLower(tokens[0]),
		Args: tokens[1:],
	}, nil
}

// tokenize runs shlex over the line with every byte widened to the rune of
// the same value, then narrows each token back. The lexer decodes runes, so
// raw bytes would otherwise come back as U+FFFD.
func tokenize(line string) ([]string, error) {
	tokens, err := shlex.Split(widen(line))
	if err != nil {
		return nil, &CommandError{
			Code:    CodeInvalidCommand,
			Message: "unterminated quoted string or escape: " + err.Error(),
		}
	}
	if len(tokens) == 0 {
		return nil, &CommandError{Code: CodeInvalidCommand, Message: "empty command"}
	}
	for i, tok := range tokens {
		tokens[i] = narrow(tok)
	}
	return tokens, nil
}

func widen(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b.WriteRune(rune(s[i]))
	}
	return b.String()
}

func narrow(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}
