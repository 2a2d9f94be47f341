package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisherWritesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "reports", nil)

	err := p.Publish(context.Background(), "run-1", Event{Kind: "allocation", RunID: "run-1", Payload: map[string]int{"T1": 2}})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "run-1", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "allocation", got["kind"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := newKafkaPublisher(&fakeWriter{err: boom}, "reports", nil)
	err := p.Publish(context.Background(), "k", 1)
	assert.ErrorIs(t, err, boom)
}

func TestNewWithoutBrokersIsNop(t *testing.T) {
	p, err := New(nil, "reports", nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.Publish(context.Background(), "k", 1))
}

func TestNewKafkaPublisherValidates(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "t", nil)
	assert.ErrorIs(t, err, errNoBrokers)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, " ", nil)
	assert.Error(t, err)
}
