package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type kindErr struct{ k ErrorKind }

func (e kindErr) Error() string { return string(e.k) }
func (e kindErr) Kind() ErrorKind { return e.k }

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindSchema, KindOf(kindErr{KindSchema}))

	wrapped := fmt.Errorf("stage: %w", kindErr{KindTransport})
	assert.Equal(t, KindTransport, KindOf(wrapped))
}

func TestErrorKindHint(t *testing.T) {
	for _, k := range []ErrorKind{KindUserInput, KindConfiguration, KindTransport, KindSchema, KindIO} {
		assert.NotEmpty(t, k.Hint(), string(k))
	}
	assert.Empty(t, KindUnknown.Hint())
	assert.Contains(t, KindConfiguration.Hint(), "OPENAI_API_KEY")
}

func TestPayloadAccessors(t *testing.T) {
	p := &Payload{Model: "m", Input: []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "usr"},
	}}
	assert.Equal(t, "sys", p.System())
	assert.Equal(t, "usr", p.User())
	assert.Empty(t, (&Payload{}).System())
}
