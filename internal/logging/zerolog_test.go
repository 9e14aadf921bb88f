package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, level string) (*ZerologLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(Config{Level: level, Format: "json", Output: &buf}), &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(ln), &m), ln)
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t, "debug")
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", "two")
	log.Warn(ctx, "wrn", "c", true)
	log.Error(ctx, "err", "d", 4)

	got := lines(t, buf)
	require.Len(t, got, 4)

	assert.Equal(t, "debug", got[0]["level"])
	assert.Equal(t, "dbg", got[0]["message"])
	assert.EqualValues(t, 1, got[0]["a"])

	assert.Equal(t, "info", got[1]["level"])
	assert.Equal(t, "two", got[1]["b"])

	assert.Equal(t, "warn", got[2]["level"])
	assert.Equal(t, true, got[2]["c"])

	assert.Equal(t, "error", got[3]["level"])
	assert.Contains(t, got[3], "time")
}

func TestZerologLogger_LevelFilter(t *testing.T) {
	log, buf := newTestLogger(t, "warn")
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["message"])
}

func TestZerologLogger_WithAndRequestID(t *testing.T) {
	log, buf := newTestLogger(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-123")

	log.With("component", "rest").Info(ctx, "hello", "k", "v")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "rest", got[0]["component"])
	assert.Equal(t, "req-123", got[0]["request_id"])
	assert.Equal(t, "v", got[0]["k"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", ParseLevel("DEBUG").String())
	assert.Equal(t, "warn", ParseLevel("warning").String())
	assert.Equal(t, "error", ParseLevel("error").String())
	assert.Equal(t, "info", ParseLevel("bogus").String())
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	ctx := context.TODO()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x", "err", "boom")
	l.With("a", 1).Info(ctx, "y")
}
