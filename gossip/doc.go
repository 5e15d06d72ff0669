// Package gossip implements randomized rumor-mongering over an abstract
// delivery mechanism.
//
// A Gossip engine owns three things: a set of peers it can reach, a replica
// of shared data it keeps up to date, and a Delivery it uses to forward
// messages on. Two engines are provided. UniformGossip treats every peer the
// same: the first time a message is seen it is applied to the replica and
// forwarded to a random subset of peers; later deliveries of the same
// message are dropped. PreferentialGossip splits peers into primaries and
// secondaries and routes differently depending on how many times a node has
// already seen a given message, so that primaries converge before
// secondaries are bothered at all.
//
// Neither engine does anything about membership, failure detection,
// anti-entropy, causal ordering, or persistence - they only decide who to
// talk to next given what they've already seen. Everything else is a
// property of the Delivery and the driver around it.
package gossip
