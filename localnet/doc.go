// Package localnet wires gossip.UniformGossip and gossip.PreferentialGossip
// engines together over plain Go channels, one channel per node, for use in
// tests and local simulation. It deliberately does no networking: every
// node lives in the same process and "delivery" is a channel send.
package localnet
