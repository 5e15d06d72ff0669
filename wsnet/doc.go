// Package wsnet delivers gossip messages to browser-hosted nodes over
// WebSocket connections, one connection per logical node, addressed by
// NodeID. It plays the role of the in-browser queue adapter: each
// connected client is expected to pump its own queue cooperatively by
// calling Tick, the way a single-threaded JavaScript event loop would,
// rather than having a dedicated goroutine block on each connection's
// reads.
package wsnet
