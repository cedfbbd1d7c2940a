package config

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/coto-cli/coto/pkg/types"
)

// Key describes one settings field.
type Key struct {
	Name        string
	Description string
	Secret      bool
	Values      []string // allowed values, empty means any
	field       func(*types.Settings) *string
}

// Keys lists every settings field in file order.
var Keys = []Key{
	{
		Name:        "openai_key",
		Description: "OpenAI API key",
		Secret:      true,
		field:       func(s *types.Settings) *string { return &s.OpenAIKey },
	},
	{
		Name:        "default_profile",
		Description: "Default AWS CLI profile",
		field:       func(s *types.Settings) *string { return &s.DefaultProfile },
	},
	{
		Name:        "default_region",
		Description: "Default AWS region",
		field:       func(s *types.Settings) *string { return &s.DefaultRegion },
	},
	{
		Name:        "model",
		Description: "Default LLM model",
		field:       func(s *types.Settings) *string { return &s.Model },
	},
	{
		Name:        "api",
		Description: "Generation API flavour",
		Values:      []string{types.APIResponses, types.APIChat},
		field:       func(s *types.Settings) *string { return &s.API },
	},
	{
		Name:        "endpoint",
		Description: "Generation API base URL",
		field:       func(s *types.Settings) *string { return &s.Endpoint },
	},
}

// maxSuggestDistance bounds how far a misspelled key may be from a suggestion.
const maxSuggestDistance = 3

// LookupKey finds a key by name. Dashes are accepted in place of underscores.
func LookupKey(name string) (Key, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, k := range Keys {
		if k.Name == normalized {
			return k, nil
		}
	}

	msg := fmt.Sprintf("unknown settings key %q", name)
	if s := suggestKey(normalized); s != "" {
		msg += fmt.Sprintf(", did you mean %q?", s)
	} else {
		msg += fmt.Sprintf(" (valid keys: %s)", strings.Join(KeyNames(), ", "))
	}
	return Key{}, &KeyError{msg: msg}
}

// KeyError reports an unknown settings key or an invalid value for one.
type KeyError struct{ msg string }

func (e *KeyError) Error() string { return e.msg }

// Kind reports key errors as a user input problem.
func (e *KeyError) Kind() types.ErrorKind { return types.KindUserInput }

func suggestKey(name string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, k := range Keys {
		if d := levenshtein.ComputeDistance(name, k.Name); d < bestDist {
			best, bestDist = k.Name, d
		}
	}
	return best
}

// KeyNames returns the names of all keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// Get returns the key's value in settings.
func (k Key) Get(s types.Settings) string {
	return *k.field(&s)
}

// Set stores value in settings after validating it. Surrounding whitespace is trimmed.
func (k Key) Set(s *types.Settings, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return &KeyError{msg: fmt.Sprintf("%s: value cannot be empty (use 'coto config unset %s' to clear it)", k.Name, k.Name)}
	}
	if len(k.Values) > 0 && !contains(k.Values, value) {
		return &KeyError{msg: fmt.Sprintf("%s: invalid value %q (expected one of %s)", k.Name, value, strings.Join(k.Values, ", "))}
	}
	*k.field(s) = value
	return nil
}

// Unset clears the key in settings.
func (k Key) Unset(s *types.Settings) {
	*k.field(s) = ""
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// Mask keeps the first three and last four characters of a secret and
// stars out the rest. Secrets of eight characters or fewer are fully starred.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:3] + strings.Repeat("*", len(secret)-7) + secret[len(secret)-4:]
}

// Masked returns a copy of settings with secret fields masked.
func Masked(s types.Settings) types.Settings {
	for _, k := range Keys {
		if k.Secret {
			p := k.field(&s)
			*p = Mask(*p)
		}
	}
	return s
}
