package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNoApplication(t *testing.T) {
	ctx, end := NewContext(context.Background(), nil, "noop")
	defer end()

	assert.Nil(t, ctx.Value(NewRelicContextKey{}))

	tracer := TraceMethodCall(ctx, "tokenops", "Submit")
	assert.Nil(t, tracer)

	// Nil tracers and missing applications are no-ops.
	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("failure"))
	tracer.End()

	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
}

func TestForwardedMessage(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	entry.Message = "transaction submitted"
	assert.Equal(t, "transaction submitted", forwardedMessage(entry))

	entry = entry.WithError(errors.New("rejected")).WithField("signature", "abc")
	entry.Message = "transaction submitted"
	assert.Equal(t, `message="transaction submitted", error="rejected", data={"signature":"abc"}`, forwardedMessage(entry))
}
