// Package types holds the data model shared by the coto packages.
package types

// Settings is the persisted per-user record of defaults.
// An empty string means the field is absent and resolution falls through
// to the next source.
type Settings struct {
	// OpenAI API key
	OpenAIKey string `toml:"openai_key,omitempty" json:"openai_key,omitempty" yaml:"openai_key,omitempty"`

	// Default AWS CLI profile for generated snippets
	DefaultProfile string `toml:"default_profile,omitempty" json:"default_profile,omitempty" yaml:"default_profile,omitempty"`

	// Default AWS region for generated snippets
	DefaultRegion string `toml:"default_region,omitempty" json:"default_region,omitempty" yaml:"default_region,omitempty"`

	// Default model
	Model string `toml:"model,omitempty" json:"model,omitempty" yaml:"model,omitempty"`

	// Generation API flavour: "responses" or "chat"
	API string `toml:"api,omitempty" json:"api,omitempty" yaml:"api,omitempty"`

	// Base URL override for the generation API
	Endpoint string `toml:"endpoint,omitempty" json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// IsZero reports whether no field is set.
func (s Settings) IsZero() bool {
	return s == Settings{}
}
