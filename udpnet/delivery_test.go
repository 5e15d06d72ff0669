package udpnet

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mooso/pheromessage/gossipset"
)

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type recordingReceiver[M any] struct {
	received chan M
}

func (r *recordingReceiver[M]) Receive(message *M) error {
	r.received <- *message
	return nil
}

func TestUdpDeliveryRoundTripsAGossipSetMessage(t *testing.T) {
	senderConn := listen(t)
	receiverConn := listen(t)

	sender := NewUdpDelivery[gossipset.Message[string]](senderConn, GobCodec[gossipset.Message[string]](), nil)
	receiver := &recordingReceiver[gossipset.Message[string]]{received: make(chan gossipset.Message[string], 1)}
	receiverDelivery := NewUdpDelivery[gossipset.Message[string]](receiverConn, GobCodec[gossipset.Message[string]](), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go receiverDelivery.Serve(ctx, receiver)

	message := gossipset.AddMessage("widget")
	err := sender.Deliver(&message, []net.UDPAddr{*receiverConn.LocalAddr().(*net.UDPAddr)})
	require.NoError(t, err)

	select {
	case got := <-receiver.received:
		assert.Equal(t, message.ID(), got.ID())
		assert.Equal(t, message.Value, got.Value)
		assert.Equal(t, message.Action, got.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivered message")
	}
}

func TestUdpDeliverySerializationErrorIsTyped(t *testing.T) {
	conn := listen(t)
	sender := NewUdpDelivery[gossipset.Message[string]](conn, failingCodec[gossipset.Message[string]]{}, nil)
	message := gossipset.AddMessage("x")
	err := sender.Deliver(&message, []net.UDPAddr{*conn.LocalAddr().(*net.UDPAddr)})
	require.Error(t, err)
	var typed *Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, Serialize, typed.Kind)
}

type failingCodec[M any] struct{}

func (failingCodec[M]) Encode(*M) ([]byte, error) {
	return nil, errEncodeAlwaysFails
}

func (failingCodec[M]) Decode([]byte) (M, error) {
	var zero M
	return zero, errEncodeAlwaysFails
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errEncodeAlwaysFails = sentinelErr("encode always fails in this test codec")
