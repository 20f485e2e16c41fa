package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerDefaults(t *testing.T) {
	l := newLogger()

	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	formatter, ok := l.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithField("bundle", "demo")
	ctx := WithLogger(context.Background(), entry)

	got := G(ctx)
	assert.Equal(t, "demo", got.Data["bundle"])
}

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	got := G(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, L.Logger, got.Logger)
}

func TestFieldsAccumulateAcrossContexts(t *testing.T) {
	ctx := WithLogger(context.Background(), logrus.NewEntry(logrus.New()).WithField("source", "~/skills"))
	ctx = WithLogger(ctx, G(ctx).WithField("tool", "claude"))

	got := G(ctx)
	assert.Equal(t, "~/skills", got.Data["source"])
	assert.Equal(t, "claude", got.Data["tool"])
}

func TestSetLogLevel(t *testing.T) {
	original := L.Logger.GetLevel()
	t.Cleanup(func() { L.Logger.SetLevel(original) })

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("loud"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	setFormat(l, "json")

	ctx := WithLogger(context.Background(), logrus.NewEntry(l))
	G(ctx).Warn("skipping resource")

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "skipping resource", logEntry["message"])

	timestamp, ok := logEntry["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, timestamp)
	assert.NoError(t, err)
}
