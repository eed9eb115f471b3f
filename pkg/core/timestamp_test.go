package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tasks/pkg/core"
)

func TestTimestamp_RoundTrip(t *testing.T) {
	original := core.NewTimestamp(time.Date(2024, 2, 29, 23, 59, 58, 123456789, time.Local))

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded core.Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{
		"2023-05-01 10:00:00.123456789 +02:00",
		"2023-05-01 10:00:00 +02:00",
		"2023-05-01T10:00:00+02:00",
		"2023-05-01T08:00:00Z",
	} {
		t.Run(s, func(t *testing.T) {
			ts, err := core.ParseTimestamp(s)
			require.NoError(t, err)
			assert.Equal(t, 8, ts.UTC().Hour())
		})
	}

	_, err := core.ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestTimestamp_Zero(t *testing.T) {
	data, err := json.Marshal(core.Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))

	var ts core.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}
