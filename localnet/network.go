package localnet

import (
	"github.com/google/uuid"

	"github.com/mooso/pheromessage/gossip"
	"github.com/mooso/pheromessage/gossipset"
)

type setMessage[T comparable] = gossipset.Message[T]

// UniformNode is a gossip-set node reachable over a local Go channel, using
// the uniform gossip technique.
type UniformNode[T comparable] struct {
	Engine   *gossip.UniformGossip[uuid.UUID, setMessage[T], chan<- setMessage[T], *gossipset.Set[T], channels[setMessage[T]]]
	Receiver <-chan setMessage[T]
	Sender   chan<- setMessage[T]
}

// PreferentialNode is a gossip-set node reachable over a local Go channel,
// using the preferential gossip technique.
type PreferentialNode[T comparable] struct {
	Engine   *gossip.PreferentialGossip[uuid.UUID, setMessage[T], chan<- setMessage[T], *gossipset.Set[T], channels[setMessage[T]]]
	Receiver <-chan setMessage[T]
	Sender   chan<- setMessage[T]
}

// NewUniformGossipSet creates numNodes nodes, each maintaining its own
// gossipset.Set[T] replica, wired to every other node with the uniform gossip
// technique. Every node can be driven independently on its own goroutine.
func NewUniformGossipSet[T comparable](numNodes, fanout int) []*UniformNode[T] {
	mailboxes := make([]chan setMessage[T], numNodes)
	for i := range mailboxes {
		mailboxes[i] = make(chan setMessage[T], mailboxSize)
	}

	nodes := make([]*UniformNode[T], numNodes)
	for i := 0; i < numNodes; i++ {
		peers := make([]chan<- setMessage[T], 0, numNodes-1)
		for j, mailbox := range mailboxes {
			if i != j {
				peers = append(peers, mailbox)
			}
		}
		engine := gossip.NewUniform[uuid.UUID, setMessage[T]](peers, fanout, gossipset.NewSet[T](), channels[setMessage[T]]{})
		nodes[i] = &UniformNode[T]{Engine: engine, Receiver: mailboxes[i], Sender: mailboxes[i]}
	}
	return nodes
}

// NewPreferentialGossipSet creates numNodes nodes wired with the
// preferential gossip technique. The first numPrimaries nodes returned are
// primaries, the rest secondaries.
func NewPreferentialGossipSet[T comparable](numNodes, numPrimaries, fanout int) []*PreferentialNode[T] {
	mailboxes := make([]chan setMessage[T], numNodes)
	for i := range mailboxes {
		mailboxes[i] = make(chan setMessage[T], mailboxSize)
	}

	nodes := make([]*PreferentialNode[T], numNodes)
	for i := 0; i < numNodes; i++ {
		primary := i < numPrimaries
		var primaries, secondaries []chan<- setMessage[T]
		for j, mailbox := range mailboxes {
			if i == j {
				continue
			}
			if j < numPrimaries {
				primaries = append(primaries, mailbox)
			} else {
				secondaries = append(secondaries, mailbox)
			}
		}
		engine := gossip.NewPreferential[uuid.UUID, setMessage[T]](primaries, secondaries, primary, fanout, gossipset.NewSet[T](), channels[setMessage[T]]{})
		nodes[i] = &PreferentialNode[T]{Engine: engine, Receiver: mailboxes[i], Sender: mailboxes[i]}
	}
	return nodes
}
