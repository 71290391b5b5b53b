package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"valid", `{"id":"c1","name":"Post","qualityScore":80}`, nil},
		{"empty", "", ErrEmptyPayload},
		{"whitespace", " \n\t", ErrEmptyPayload},
		{"not json", "hello", ErrMalformedPayload},
		{"wrong shape", `[1,2,3]`, ErrMalformedPayload},
		{"missing id", `{"name":"Post"}`, ErrMalformedPayload},
		{"missing name", `{"id":"c1"}`, ErrMalformedPayload},
		{"score above 100", `{"id":"c1","name":"Post","qualityScore":140}`, nil},
		{"negative score", `{"id":"c1","name":"Post","qualityScore":-5}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(tt.payload)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEncodePayloadRoundTrip(t *testing.T) {
	in := Content{ID: "c1", Name: "Post", Campaign: "Summer", KeyActions: []string{"Buy"}}
	payload, err := EncodePayload(in)
	require.NoError(t, err)

	out, err := ParsePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDropPosition(t *testing.T) {
	assert.Equal(t, pt(25, 60), DropPosition(pt(100, 100)))
}
