package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingSubjects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		wanted   []string
		want     []string
	}{
		{
			name:     "all present",
			existing: []string{"rifa.draw.started", "rifa.draw.resolved"},
			wanted:   []string{"rifa.draw.resolved"},
			want:     nil,
		},
		{
			name:     "new subjects appended in order",
			existing: []string{"rifa.draw.started"},
			wanted:   []string{"rifa.draw.started", "rifa.draw.exhausted", "rifa.draw.closed"},
			want:     []string{"rifa.draw.exhausted", "rifa.draw.closed"},
		},
		{
			name:     "duplicates in wanted reported once",
			existing: nil,
			wanted:   []string{"rifa.event.saved", "rifa.event.saved"},
			want:     []string{"rifa.event.saved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, missingSubjects(tt.existing, tt.wanted))
		})
	}
}

func TestNATSClient_NotConnected(t *testing.T) {
	t.Parallel()

	client := NewNATSClient("nats://localhost:4222")

	assert.False(t, client.IsConnected())
	require.ErrorIs(t, client.Check(context.Background()), errNotConnected)
	require.ErrorIs(t, client.EnsureStream(StreamName, []string{"rifa.draw.started"}), errNotConnected)
	require.ErrorIs(t, client.Publish(context.Background(), "rifa.draw.started", []byte("{}")), errNotConnected)
	assert.NoError(t, client.Close())
}
