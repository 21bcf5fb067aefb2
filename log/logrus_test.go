package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogrusLoggerFields(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogrus(LogrusProperties{
		Level:  logrus.DebugLevel,
		Output: &buffer,
	})

	ctx := PutRequestID(context.Background(), "8b5a81f2")
	logger.ForClass("conn", "Connection").Info(ctx, "request dispatched", MapFields{
		"method": "GET",
	})

	var line map[string]interface{}
	assert.Nil(t, json.Unmarshal(buffer.Bytes(), &line))
	assert.Equal(t, "request dispatched", line["msg"])
	assert.Equal(t, "conn", line["pkg"])
	assert.Equal(t, "Connection", line["class"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "8b5a81f2", line["requestId"])
}

func TestLogrusLoggerLevelFilter(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogrus(LogrusProperties{
		Level:  logrus.WarnLevel,
		Output: &buffer,
	})

	logger.Debug(context.Background(), "dropped")
	assert.Equal(t, 0, buffer.Len())

	logger.Warn(context.Background(), "kept")
	assert.True(t, buffer.Len() > 0)
}
