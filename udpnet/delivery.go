package udpnet

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// readTimeout bounds how long Serve blocks on a single read so it can
// notice ctx cancellation promptly.
const readTimeout = 200 * time.Millisecond

const maxDatagram = 65507

// Receiver is anything that can absorb a decoded message, satisfied by
// *gossip.UniformGossip and *gossip.PreferentialGossip's Receive method.
type Receiver[M any] interface {
	Receive(message *M) error
}

// UdpDelivery is a gossip.Delivery[M, net.UDPAddr] that sends each message
// as a single UDP datagram and, via Serve, decodes incoming datagrams and
// hands them to a node's engine.
type UdpDelivery[M any] struct {
	Conn   *net.UDPConn
	Codec  Codec[M]
	Logger *zap.Logger
}

// NewUdpDelivery wraps an already-bound *net.UDPConn. Pass a nil logger to
// get a no-op logger.
func NewUdpDelivery[M any](conn *net.UDPConn, codec Codec[M], logger *zap.Logger) *UdpDelivery[M] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UdpDelivery[M]{Conn: conn, Codec: codec, Logger: logger}
}

// Deliver encodes message once and writes it to every endpoint, stopping at
// the first failure.
func (d *UdpDelivery[M]) Deliver(message *M, endpoints []net.UDPAddr) error {
	payload, err := d.Codec.Encode(message)
	if err != nil {
		return &Error{Kind: Serialize, Err: err}
	}
	for _, addr := range endpoints {
		addr := addr
		if _, err := d.Conn.WriteToUDP(payload, &addr); err != nil {
			return &Error{Kind: Send, Err: fmt.Errorf("write to %s: %w", addr.String(), err)}
		}
	}
	return nil
}

// Serve reads datagrams until ctx is done, decoding each and handing it to
// receiver. A datagram that fails to decode is logged at debug level and
// dropped rather than treated as fatal - a malformed or foreign packet on
// the socket shouldn't take the node down.
func (d *UdpDelivery[M]) Serve(ctx context.Context, receiver Receiver[M]) error {
	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := d.Conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return fmt.Errorf("udpnet: set read deadline: %w", err)
		}
		n, _, err := d.Conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				// The read failed because Serve is shutting down, not
				// because of a real network error.
				d.Logger.Debug("udpnet: read during shutdown", zap.Error(err))
				return ctx.Err()
			}
			return fmt.Errorf("udpnet: read: %w", err)
		}

		message, err := d.Codec.Decode(buf[:n])
		if err != nil {
			d.Logger.Debug("udpnet: dropping undecodable datagram", zap.Error(err))
			continue
		}
		if err := receiver.Receive(&message); err != nil {
			d.Logger.Debug("udpnet: receive error", zap.Error(err))
		}
	}
}
