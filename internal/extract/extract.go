// Package extract validates a generation reply and pulls out the code.
//
// Validation has two stages and no partial recovery:
//
//  1. Locate the generated text inside the responses API envelope
//     (output[].content[] items of type output_text). Failure is
//     ErrMalformedEnvelope.
//  2. Parse that text as a JSON object whose only key is "code" with a
//     string value. Anything else is ErrSchemaViolation.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/coto-cli/coto/pkg/types"
)

var (
	// ErrMalformedEnvelope means the reply had no generated text where expected.
	ErrMalformedEnvelope = errors.New("malformed response envelope")

	// ErrSchemaViolation means the generated text was not {"code": "<string>"}.
	ErrSchemaViolation = errors.New("model output violates the required schema")
)

// SchemaError wraps ErrMalformedEnvelope or ErrSchemaViolation with detail.
type SchemaError struct {
	Reason error
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Detail == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%v: %s", e.Reason, e.Detail)
}

func (e *SchemaError) Unwrap() error { return e.Reason }

// Kind reports schema errors as such.
func (e *SchemaError) Kind() types.ErrorKind { return types.KindSchema }

// envelopeQuery selects the text of every output_text part of every output item.
const envelopeQuery = `[.output[]? | .content[]? | select(.type? == "output_text") | .text]`

var envelopeCode *gojq.Code

func init() {
	query, err := gojq.Parse(envelopeQuery)
	if err != nil {
		panic(err)
	}
	envelopeCode, err = gojq.Compile(query)
	if err != nil {
		panic(err)
	}
}

// Reply extracts code from a reply, running stage 1 only when the reply
// still carries its envelope.
func Reply(r *types.Reply) (string, error) {
	if r == nil {
		return "", &SchemaError{Reason: ErrMalformedEnvelope, Detail: "empty reply"}
	}
	if r.Envelope != nil {
		return Envelope(r.Envelope)
	}
	return Code(r.Text)
}

// Envelope runs both stages on a raw responses API body.
func Envelope(raw []byte) (string, error) {
	text, err := GeneratedText(raw)
	if err != nil {
		return "", err
	}
	return Code(text)
}

// GeneratedText locates the model's text in a responses API envelope.
// Multiple output_text parts are rejected rather than concatenated.
func GeneratedText(raw []byte) (string, error) {
	var envelope any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", &SchemaError{Reason: ErrMalformedEnvelope, Detail: fmt.Sprintf("reply is not JSON: %v", err)}
	}
	if _, ok := envelope.(map[string]any); !ok {
		return "", &SchemaError{Reason: ErrMalformedEnvelope, Detail: "reply is not a JSON object"}
	}

	iter := envelopeCode.Run(envelope)
	v, ok := iter.Next()
	if !ok {
		return "", &SchemaError{Reason: ErrMalformedEnvelope, Detail: "no output"}
	}
	if err, ok := v.(error); ok {
		return "", &SchemaError{Reason: ErrMalformedEnvelope, Detail: err.Error()}
	}

	texts, _ := v.([]any)
	switch len(texts) {
	case 0:
		return "", &SchemaError{Reason: ErrMalformedEnvelope, Detail: "no output_text content in reply"}
	case 1:
	default:
		return "", &SchemaError{Reason: ErrMalformedEnvelope, Detail: fmt.Sprintf("expected one output_text part, found %d", len(texts))}
	}

	text, ok := texts[0].(string)
	if !ok {
		return "", &SchemaError{Reason: ErrMalformedEnvelope, Detail: "output_text content is not a string"}
	}
	return text, nil
}

// Code parses text as {"code": "<string>"} and returns the code.
// The object must hold exactly one key, spelled "code", with a string
// value. Other keys, case variants, duplicates and trailing data are
// violations.
func Code(text string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil {
		return "", violation(err.Error())
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", violation("reply is not a JSON object")
	}

	var code *string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", violation(err.Error())
		}
		key, _ := tok.(string)
		if key != "code" {
			return "", violation(fmt.Sprintf("unexpected key %q", key))
		}
		if code != nil {
			return "", violation(`duplicate "code" key`)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return "", violation(err.Error())
		}
		s, ok := v.(string)
		if !ok {
			return "", violation(`"code" is not a string`)
		}
		code = &s
	}
	if _, err := dec.Token(); err != nil {
		return "", violation(err.Error())
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", violation("unexpected data after JSON object")
	}

	if code == nil {
		return "", violation(`missing "code" field`)
	}
	return *code, nil
}

func violation(detail string) error {
	return &SchemaError{Reason: ErrSchemaViolation, Detail: detail}
}
