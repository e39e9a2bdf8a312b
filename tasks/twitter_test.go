package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTwitterPublisherRejectsMalformedKey(t *testing.T) {
	p := NewTwitterPublisher(0, discardLogger())

	for _, key := range []string{"", "only-token", "a b c"} {
		res := p.Publish(context.Background(), RepostPayload{Username: "alice", Text: "hi", APIKey: key})
		assert.False(t, res.Succeeded, key)
		assert.Contains(t, res.Response, "oauth token", key)
	}
}
