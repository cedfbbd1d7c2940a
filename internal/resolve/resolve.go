// Package resolve merges per-invocation overrides, stored settings and the
// environment into the parameters of a single generation request.
package resolve

import (
	"strings"
	"time"

	"github.com/coto-cli/coto/pkg/types"
)

// CredentialEnv is the environment variable consulted when no key is stored.
const CredentialEnv = "OPENAI_API_KEY"

// Built-in fallbacks used when neither an override nor a setting is present.
const (
	DefaultModel    = "o4-mini"
	DefaultAPI      = types.APIResponses
	DefaultEndpoint = "https://api.openai.com/v1"
	DefaultTimeout  = 2 * time.Minute
)

// Error is a resolution failure.
type Error struct {
	kind types.ErrorKind
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Kind() types.ErrorKind { return e.kind }

var (
	// ErrMissingPrompt is returned when the invocation has no prompt.
	ErrMissingPrompt = &Error{
		kind: types.KindUserInput,
		msg:  `prompt required: pass one with --prompt "..." or as arguments, e.g. coto gen "list s3 buckets"`,
	}

	// ErrMissingCredential is returned when no API key is stored or set in the environment.
	ErrMissingCredential = &Error{
		kind: types.KindConfiguration,
		msg:  "no OpenAI API key found: store one with 'coto config openai-key <key>' or set " + CredentialEnv,
	}

	// ErrInvalidAPI is returned for an API flavour other than responses or chat.
	ErrInvalidAPI = &Error{
		kind: types.KindConfiguration,
		msg:  "invalid api: expected " + types.APIResponses + " or " + types.APIChat,
	}
)

// Resolve merges the three sources with per-field precedence:
//
//	credential:              override > setting > environment > ErrMissingCredential
//	model:                   override > setting > DefaultModel
//	profile, region:         override > setting > absent
//	api, endpoint:           override > setting > built-in default
//	prompt:                  override only, otherwise ErrMissingPrompt
//
// A credential is not required for a dry run since nothing is sent.
// Blank values count as absent. The prompt is passed through verbatim.
// Resolve has no side effects.
func Resolve(o types.Overrides, s types.Settings, getenv func(string) string) (types.Params, error) {
	p := types.Params{
		Prompt:     o.Prompt,
		Model:      first(o.Model, s.Model, DefaultModel),
		Profile:    first(o.Profile, s.DefaultProfile),
		Region:     first(o.Region, s.DefaultRegion),
		Credential: first(o.Credential, s.OpenAIKey, lookup(getenv, CredentialEnv)),
		API:        strings.ToLower(first(o.API, s.API, DefaultAPI)),
		Endpoint:   strings.TrimRight(first(o.Endpoint, s.Endpoint, DefaultEndpoint), "/"),
		Output:     strings.TrimSpace(o.Output),
		DryRun:     o.DryRun,
		Timeout:    o.Timeout,
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}

	if strings.TrimSpace(p.Prompt) == "" {
		return types.Params{}, ErrMissingPrompt
	}
	if p.API != types.APIResponses && p.API != types.APIChat {
		return types.Params{}, ErrInvalidAPI
	}
	if p.Credential == "" && !p.DryRun {
		return types.Params{}, ErrMissingCredential
	}

	return p, nil
}

func lookup(getenv func(string) string, key string) string {
	if getenv == nil {
		return ""
	}
	return getenv(key)
}

// first returns the first non-blank value, trimmed.
func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
