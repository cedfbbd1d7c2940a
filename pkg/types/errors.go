package types

import "errors"

// ErrorKind classifies a failure by the pipeline stage that owns it.
type ErrorKind string

const (
	KindUnknown       ErrorKind = ""
	KindUserInput     ErrorKind = "user_input"
	KindConfiguration ErrorKind = "configuration"
	KindTransport     ErrorKind = "transport"
	KindSchema        ErrorKind = "schema"
	KindIO            ErrorKind = "io"
)

// Kinder is implemented by errors that carry an ErrorKind.
type Kinder interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first error in err's chain that has one.
func KindOf(err error) ErrorKind {
	var k Kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// Hint returns a one-line remediation for an error kind.
func (k ErrorKind) Hint() string {
	switch k {
	case KindUserInput:
		return "check the command arguments and try again"
	case KindConfiguration:
		return "run 'coto config openai-key <key>' or set OPENAI_API_KEY"
	case KindTransport:
		return "the generation API rejected the request or could not be reached"
	case KindSchema:
		return "the model did not follow the required {\"code\": ...} output schema; try rephrasing or another model"
	case KindIO:
		return "check that the output path is writable"
	default:
		return ""
	}
}
