package appkafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWritesKeyedJSON(t *testing.T) {
	mk := &MockKafka{}
	p := NewActivityPublisher(mk)

	err := p.Publish(t.Context(), Event{Type: EventLike, ActorID: "u1", SubjectID: "p1", PostID: "p1", State: true})
	require.NoError(t, err)

	msgs := mk.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "p1", string(msgs[0].Key))

	var ev Event
	require.NoError(t, json.Unmarshal(msgs[0].Value, &ev))
	assert.Equal(t, EventLike, ev.Type)
	assert.Equal(t, "u1", ev.ActorID)
	assert.True(t, ev.State)
	assert.False(t, ev.At.IsZero())
}

func TestPublishWriteFailure(t *testing.T) {
	p := NewActivityPublisher(&MockKafkaFail{})
	err := p.Publish(t.Context(), Event{Type: EventFollow, SubjectID: "u2"})
	assert.ErrorContains(t, err, "write follow event")
}

func TestNewPublisherWithoutBroker(t *testing.T) {
	p := NewPublisher(KafkaConfig{Brokers: []string{""}, Topic: "activity"})
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(t.Context(), Event{}))
	assert.NoError(t, p.Close())
}

func TestNewKafkaWriterFlushesImmediately(t *testing.T) {
	w := NewKafkaWriter(KafkaConfig{Brokers: []string{"kafka:9092"}, Topic: "activity"})
	defer w.Close()

	assert.Equal(t, "activity", w.Topic)
	assert.Equal(t, 1, w.BatchSize)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
	assert.True(t, w.Async, "requests must not wait on the broker")
	assert.NotNil(t, w.Completion)
	assert.Equal(t, 10*time.Second, w.WriteTimeout)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}
