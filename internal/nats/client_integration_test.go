package nats

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server: NATS_TEST_URL=nats://localhost:4222 go test ./internal/nats
func TestClient_PublishSubscribe(t *testing.T) {
	url := os.Getenv("NATS_TEST_URL")
	if url == "" {
		t.Skip("NATS_TEST_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := New(ctx, url, "resumekit-test")
	require.NoError(t, err)
	defer c.Close()
	require.True(t, c.IsConnected())

	suffix := uuid.NewString()[:8]
	stream := "resumes_test_" + suffix
	subject := "resumes_test_" + suffix + ".render"
	require.NoError(t, c.EnsureStream(ctx, stream, []string{subject}))

	got := make(chan string, 1)
	require.NoError(t, c.Subscribe(ctx, stream, "test_"+suffix, subject, func(data []byte) error {
		var msg struct {
			RequestID string `json:"request_id"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil
		}
		got <- msg.RequestID
		return nil
	}))

	require.NoError(t, c.Publish(ctx, subject, map[string]any{"request_id": "req-1", "template": 1}))

	select {
	case id := <-got:
		assert.Equal(t, "req-1", id)
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}

	assert.NoError(t, c.js.DeleteStream(context.Background(), stream))
}
