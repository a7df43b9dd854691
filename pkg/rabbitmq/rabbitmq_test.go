package rabbitmq

import (
	"errors"
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked   []uint64
	nacked  []uint64
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = append(f.nacked, tag)
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func TestDispatch_AcksOnSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	var got []byte

	Dispatch(amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte(`{"type":"x"}`)}, func(body []byte) error {
		got = body
		return nil
	})

	assert.Equal(t, `{"type":"x"}`, string(got))
	assert.Equal(t, []uint64{7}, ack.acked)
	assert.Empty(t, ack.nacked)
}

func TestDispatch_NacksWithoutRequeueOnError(t *testing.T) {
	ack := &fakeAcknowledger{}

	Dispatch(amqp.Delivery{Acknowledger: ack, DeliveryTag: 3}, func([]byte) error {
		return errors.New("bad payload")
	})

	assert.Empty(t, ack.acked)
	assert.Equal(t, []uint64{3}, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestEncode(t *testing.T) {
	body, err := Encode(map[string]string{"type": "payment.verified"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"payment.verified"}`, string(body))

	_, err = Encode(make(chan int))
	assert.Error(t, err)
}
