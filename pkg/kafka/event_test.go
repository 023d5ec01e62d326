package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]string{"id": "prod-1", "title": "Phone X"}

	event, err := NewEvent("product.created", "prod-1", "product", "shophub-admin", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "product.created", event.EventType)
	assert.Equal(t, "prod-1", event.AggregateID)
	assert.Equal(t, "product", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.NotZero(t, event.Timestamp)

	var decoded map[string]string
	require.NoError(t, event.UnmarshalData(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("product.created", "prod-1", "product", "shophub-admin", make(chan int))
	assert.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("product.deleted", "prod-9", "product", "shophub-admin", map[string]string{"id": "prod-9"})
	require.NoError(t, err)

	event.WithCorrelationID("corr-42")

	data, err := event.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "corr-42")
	assert.Contains(t, string(data), "product.deleted")
}
