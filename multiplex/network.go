package multiplex

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/mooso/pheromessage/gossip"
	"github.com/mooso/pheromessage/gossipset"
)

type setMessage[T comparable] = gossipset.Message[T]

type uniformEngine[T comparable] = gossip.UniformGossip[uuid.UUID, setMessage[T], Endpoint[setMessage[T]], *gossipset.Set[T], multiplexDelivery[setMessage[T]]]
type preferentialEngine[T comparable] = gossip.PreferentialGossip[uuid.UUID, setMessage[T], Endpoint[setMessage[T]], *gossipset.Set[T], multiplexDelivery[setMessage[T]]]

// UniformGroup is a node group whose members each maintain their own
// gossipset.Set[T] replica using the uniform gossip technique, sharing one
// mailbox channel.
type UniformGroup[T comparable] struct {
	Engines  []*uniformEngine[T]
	Receiver <-chan Envelope[setMessage[T]]
	Sender   chan<- Envelope[setMessage[T]]
}

// PreferentialGroup is a node group whose members each maintain their own
// gossipset.Set[T] replica using the preferential gossip technique, sharing
// one mailbox channel.
type PreferentialGroup[T comparable] struct {
	Engines  []*preferentialEngine[T]
	Receiver <-chan Envelope[setMessage[T]]
	Sender   chan<- Envelope[setMessage[T]]
}

// samplePeerIndices picks peersPerNode distinct global node indices other
// than self, out of numNodes total. It samples from [0, numNodes-1) and
// remaps values at or past self up by one, so self itself is never chosen
// without wasting a sample slot on the attempt.
func samplePeerIndices(numNodes, self, peersPerNode int) []int {
	n := numNodes - 1
	if peersPerNode > n {
		peersPerNode = n
	}
	if peersPerNode <= 0 {
		return nil
	}
	perm := rand.Perm(n)[:peersPerNode]
	out := make([]int, peersPerNode)
	for i, j := range perm {
		if j >= self {
			j++
		}
		out[i] = j
	}
	return out
}

func endpointFor[T comparable](mailboxes []chan Envelope[setMessage[T]], numGroups, globalIndex int) Endpoint[setMessage[T]] {
	info := ForNode(numGroups, globalIndex)
	return Endpoint[setMessage[T]]{sender: mailboxes[info.GroupIndex], nodeIndex: info.NodeIndex}
}

// NewUniformGossipSet creates numNodes nodes striped across numGroups
// shared mailboxes, each knowing peersPerNode random peers, wired with the
// uniform gossip technique. Pass peersPerNode == numNodes-1 for every node
// to know every other node; lower values trade memory for slower
// convergence in very large networks.
func NewUniformGossipSet[T comparable](numNodes, numGroups, peersPerNode, fanout int) []*UniformGroup[T] {
	mailboxes := make([]chan Envelope[setMessage[T]], numGroups)
	for i := range mailboxes {
		mailboxes[i] = make(chan Envelope[setMessage[T]], mailboxSize)
	}

	engines := make([][]*uniformEngine[T], numGroups)
	for i := 0; i < numNodes; i++ {
		peers := make([]Endpoint[setMessage[T]], 0, peersPerNode)
		for _, j := range samplePeerIndices(numNodes, i, peersPerNode) {
			peers = append(peers, endpointFor[T](mailboxes, numGroups, j))
		}
		info := ForNode(numGroups, i)
		engine := gossip.NewUniform[uuid.UUID, setMessage[T]](peers, fanout, gossipset.NewSet[T](), multiplexDelivery[setMessage[T]]{})
		engines[info.GroupIndex] = append(engines[info.GroupIndex], engine)
	}

	groups := make([]*UniformGroup[T], numGroups)
	for g := 0; g < numGroups; g++ {
		groups[g] = &UniformGroup[T]{Engines: engines[g], Receiver: mailboxes[g], Sender: mailboxes[g]}
	}
	return groups
}

// NewPreferentialGossipSet creates numNodes nodes striped across numGroups
// shared mailboxes, wired with the preferential gossip technique. The first
// numPrimaries global indices are primaries.
func NewPreferentialGossipSet[T comparable](numNodes, numGroups, peersPerNode, numPrimaries, fanout int) []*PreferentialGroup[T] {
	mailboxes := make([]chan Envelope[setMessage[T]], numGroups)
	for i := range mailboxes {
		mailboxes[i] = make(chan Envelope[setMessage[T]], mailboxSize)
	}

	engines := make([][]*preferentialEngine[T], numGroups)
	for i := 0; i < numNodes; i++ {
		primary := i < numPrimaries
		var primaries, secondaries []Endpoint[setMessage[T]]
		for _, j := range samplePeerIndices(numNodes, i, peersPerNode) {
			endpoint := endpointFor[T](mailboxes, numGroups, j)
			if j < numPrimaries {
				primaries = append(primaries, endpoint)
			} else {
				secondaries = append(secondaries, endpoint)
			}
		}
		info := ForNode(numGroups, i)
		engine := gossip.NewPreferential[uuid.UUID, setMessage[T]](primaries, secondaries, primary, fanout, gossipset.NewSet[T](), multiplexDelivery[setMessage[T]]{})
		engines[info.GroupIndex] = append(engines[info.GroupIndex], engine)
	}

	groups := make([]*PreferentialGroup[T], numGroups)
	for g := 0; g < numGroups; g++ {
		groups[g] = &PreferentialGroup[T]{Engines: engines[g], Receiver: mailboxes[g], Sender: mailboxes[g]}
	}
	return groups
}
