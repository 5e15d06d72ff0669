// Package gossipset implements a convergent, add/remove counting set that
// can be maintained by gossip.
//
// Membership of an item is derived, never stored directly: a Set tracks how
// many times each item has been added and removed, and the item is present
// exactly when its add count exceeds its remove count. Because the update
// is a commutative counter bump, replaying the same Add or Remove message
// more than once does change the result (each delivery counts), which is
// why gossip.UniformGossip and gossip.PreferentialGossip only ever apply a
// given message ID once per node - the convergence guarantee here depends on
// every node applying each message exactly once, not on the update itself
// being idempotent.
//
// There's no tombstone garbage collection, no vector clock, and no
// anti-entropy pass here; a Set only ever grows its bookkeeping and only
// ever converges through the gossip layer delivering every message to every
// node eventually.
package gossipset
