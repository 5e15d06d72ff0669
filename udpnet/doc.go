// Package udpnet delivers gossip messages as UDP datagrams, one message per
// packet, so a gossip.Delivery can reach real, separate processes instead
// of just in-process channels.
//
// Serialization is pluggable through the Codec interface; the default
// implementation gob-encodes each message, the same way minnet gob-encodes
// each message onto a pipe, except a UDP datagram has no stream to frame,
// so each Encode call produces one complete buffer instead of writing into
// a shared encoder/decoder pair.
package udpnet
