package types

import "time"

// API flavours understood by the generation client.
const (
	APIResponses = "responses"
	APIChat      = "chat"
)

// Overrides are the per-invocation values supplied on the command line.
// Empty fields are absent.
type Overrides struct {
	Prompt     string
	Model      string
	Profile    string
	Region     string
	Credential string
	API        string
	Endpoint   string
	Output     string
	DryRun     bool
	Timeout    time.Duration
}

// Params is the fully resolved parameter set for one generation request.
type Params struct {
	Prompt     string
	Model      string
	Profile    string
	Region     string
	Credential string `json:"-"`
	API        string
	Endpoint   string
	Output     string
	DryRun     bool
	Timeout    time.Duration
}

// Message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Payload is the request body sent to the generation API.
// Input always holds exactly one system message followed by one user message.
type Payload struct {
	Model string    `json:"model"`
	Input []Message `json:"input"`
}

// System returns the system message content.
func (p *Payload) System() string {
	for _, m := range p.Input {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// User returns the user message content.
func (p *Payload) User() string {
	for _, m := range p.Input {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}

// Reply is what the generation client got back.
// Envelope holds the raw response body when the client returns the service's
// envelope untouched; Text holds the generated text when the client already
// unwrapped it.
type Reply struct {
	Envelope []byte
	Text     string
}
