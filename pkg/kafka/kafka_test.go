package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"roombooking/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWriter) written() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		msg := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Stats() kafka.ReaderStats { return kafka.ReaderStats{Lag: 3} }

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commitCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	ts := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	msg, err := NewMessage().
		WithKey("room-1").
		WithValue(map[string]string{"booking_id": "b1"}).
		WithEventType("booking.confirmed").
		WithCorrelationID("").
		WithTimestamp(ts).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "room-1", msg.Key)
	assert.JSONEq(t, `{"booking_id":"b1"}`, string(msg.Value))
	assert.Equal(t, "booking.confirmed", msg.GetEventType())
	assert.NotEmpty(t, msg.GetEventID())
	assert.Empty(t, msg.GetCorrelationID())
	assert.Equal(t, "2024-02-01T12:00:00Z", msg.Headers[HeaderTimestamp])
}

func TestMessageBuilder_UnencodableValue(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestMessage_RetryCount(t *testing.T) {
	var msg Message
	assert.Equal(t, 0, msg.GetRetryCount())

	msg.IncrementRetryCount()
	msg.IncrementRetryCount()
	assert.Equal(t, 2, msg.GetRetryCount())

	msg.Headers[HeaderRetryCount] = "garbage"
	assert.Equal(t, 0, msg.GetRetryCount())
}

func TestMessage_DecodeValueIsPermanent(t *testing.T) {
	msg := Message{Value: []byte("{not json")}
	var out map[string]any
	err := msg.DecodeValue(&out)
	require.Error(t, err)
	assert.Equal(t, ErrorTypePermanent, ClassifyError(err))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"timeout", errors.New("i/o timeout"), ErrorTypeTransient},
		{"leader", errors.New("Leader Not Available"), ErrorTypeTransient},
		{"unknown", errors.New("boom"), ErrorTypePermanent},
		{"explicit transient", NewTransientError("retry me", errors.New("x")), ErrorTypeTransient},
		{"wrapped permanent", errors.Join(errors.New("ctx"), NewPermanentError("bad", nil)), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := errors.New("connection refused")
	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(errors.New("boom"), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	producer := newProducer(writer, nil, "events", logger.Discard())

	var seen []string
	producer.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		seen = append(seen, msg.Topic)
		return next(ctx, msg)
	})

	msg, err := NewMessage().WithKey("room-1").WithValue("v").WithEventType("booking.confirmed").Build()
	require.NoError(t, err)
	require.NoError(t, producer.Publish(context.Background(), msg))

	written := writer.written()
	require.Len(t, written, 1)
	assert.Equal(t, "room-1", string(written[0].Key))
	assert.Equal(t, "booking.confirmed", headerValue(written[0], HeaderEventType))
	assert.Equal(t, []string{"events"}, seen)
}

func TestProducer_RejectsEmptyKeyAndValue(t *testing.T) {
	producer := newProducer(&fakeWriter{}, nil, "events", logger.Discard())

	assert.ErrorIs(t, producer.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, producer.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)
}

func TestProducer_FailureGoesToDLQ(t *testing.T) {
	writeErr := errors.New("broker down")
	dlq := &fakeWriter{}
	producer := newProducer(&fakeWriter{err: writeErr}, dlq, "events", logger.Discard())

	msg := Message{Key: "room-1", Value: []byte(`{}`)}
	err := producer.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)
	assert.Nil(t, msg.Headers, "caller's message must not be mutated")

	written := dlq.written()
	require.Len(t, written, 1)
	assert.Equal(t, "events", headerValue(written[0], HeaderOriginalTopic))
	assert.Equal(t, "broker down", headerValue(written[0], HeaderDLQError))
}

func TestProducer_Closed(t *testing.T) {
	writer, dlq := &fakeWriter{}, &fakeWriter{}
	producer := newProducer(writer, dlq, "events", logger.Discard())

	require.NoError(t, producer.Close())
	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
	assert.True(t, dlq.closed)
	assert.ErrorIs(t, producer.Publish(context.Background(), Message{Key: "k", Value: []byte("v")}), ErrProducerClosed)
}

func runConsumer(t *testing.T, consumer *Consumer, reader *fakeReader, wantCommits int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Start(ctx) }()

	require.Eventually(t, func() bool { return reader.commitCount() == wantCommits }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	require.NoError(t, consumer.Close())
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{
		{Key: []byte("room-1"), Value: []byte(`{}`), Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte("booking.confirmed")}}},
		{Key: []byte("room-2"), Value: []byte(`{}`)},
	}}

	var mu sync.Mutex
	var keys []string
	handler := func(_ context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		keys = append(keys, msg.Key)
		return nil
	}

	consumer := newConsumer(reader, nil, "events", "group", 3, handler, logger.Discard())
	runConsumer(t, consumer, reader, 2)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"room-1", "room-2"}, keys)
	assert.Equal(t, int64(3), consumer.Lag())
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Key: []byte("room-1"), Value: []byte(`{}`)}}}

	attempts := 0
	handler := func(context.Context, Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("flaky", nil)
		}
		return nil
	}

	dlq := &fakeWriter{}
	consumer := newConsumer(reader, dlq, "events", "group", 3, handler, logger.Discard())
	consumer.retryBackoff = time.Millisecond
	runConsumer(t, consumer, reader, 1)

	assert.Equal(t, 3, attempts)
	assert.Empty(t, dlq.written())
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Key: []byte("room-1"), Value: []byte(`{}`)}}}

	attempts := 0
	handler := func(context.Context, Message) error {
		attempts++
		return NewPermanentError("bad payload", nil)
	}

	dlq := &fakeWriter{}
	consumer := newConsumer(reader, dlq, "events", "group", 3, handler, logger.Discard())
	runConsumer(t, consumer, reader, 1)

	assert.Equal(t, 1, attempts)
	written := dlq.written()
	require.Len(t, written, 1)
	assert.Equal(t, "group", headerValue(written[0], HeaderDLQConsumerGroup))
	assert.Equal(t, "bad payload", headerValue(written[0], HeaderDLQError))
}
