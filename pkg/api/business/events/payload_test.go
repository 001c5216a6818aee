package events_test

import (
	"testing"

	"github.com/parentwatch/scanguard/pkg/api/business/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTaskPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	payload := events.ScanTaskPayload("la-123")

	id, err := events.LinkedAccountIDFromPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "la-123", id)
}

func TestLinkedAccountIDFromPayload_JSONDecodedArgs(t *testing.T) {
	t.Parallel()

	// A payload round-tripped through encoding/json decodes args as []any.
	payload := map[string]any{"args": []any{"la-456"}}

	id, err := events.LinkedAccountIDFromPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "la-456", id)
}

func TestLinkedAccountIDFromPayload_MissingArgs(t *testing.T) {
	t.Parallel()

	_, err := events.LinkedAccountIDFromPayload(map[string]any{})
	require.ErrorIs(t, err, events.ErrMalformedPayload)
}
