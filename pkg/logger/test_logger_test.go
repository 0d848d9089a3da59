package logger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestLoggerCapturesMessages(t *testing.T) {
	log := NewTestLogger()

	log.Info("first")
	log.Warn("second")

	messages := log.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "INFO", messages[0].Level)
	assert.Equal(t, "first", messages[0].Message)
	assert.True(t, log.HasMessage("second"))
	assert.False(t, log.HasMessage("third"))
}

func TestTestLoggerMessagesByLevel(t *testing.T) {
	log := NewTestLogger()

	log.Info("a")
	log.Error("b")
	log.Error("c")

	assert.Len(t, log.MessagesByLevel("ERROR"), 2)
	assert.Len(t, log.MessagesByLevel("INFO"), 1)
	assert.Empty(t, log.MessagesByLevel("DEBUG"))
}

func TestTestLoggerFieldChaining(t *testing.T) {
	log := NewTestLogger()

	log.WithField("tag", "sunset").WithField("media_id", "m1").Error("upsert failed")

	messages := log.MessagesByLevel("ERROR")
	require.Len(t, messages, 1)
	assert.Equal(t, "sunset", messages[0].Fields["tag"])
	assert.Equal(t, "m1", messages[0].Fields["media_id"])
}

func TestTestLoggerFieldMerge(t *testing.T) {
	log := NewTestLogger()

	log.WithField("tag", "sunset").InfoWithFields("media fetched", map[string]interface{}{
		"count": 7,
	})

	messages := log.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "sunset", messages[0].Fields["tag"])
	assert.Equal(t, 7, messages[0].Fields["count"])
}

func TestTestLoggerWithError(t *testing.T) {
	log := NewTestLogger()
	cause := fmt.Errorf("boom")

	log.WithError(cause).Error("sync run failed")

	messages := log.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, cause, messages[0].Error)
}

func TestTestLoggerClear(t *testing.T) {
	log := NewTestLogger()

	log.Info("a")
	log.Clear()

	assert.Empty(t, log.Messages())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "debug"},
		{input: "INFO"},
		{input: "warn"},
		{input: "warning"},
		{input: "error"},
		{input: ""},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
