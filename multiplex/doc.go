// Package multiplex packs many logical gossip nodes onto a small number of
// shared Go channels ("groups"), so a local simulation with thousands of
// nodes doesn't need thousands of OS-level mailboxes. Each group has one
// channel carrying Envelope values that name which node within the group
// the message is actually for; a single goroutine per group dispatches
// envelopes to the right node's engine.
package multiplex
