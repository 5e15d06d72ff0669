package main

import (
	"github.com/google/uuid"

	"github.com/mooso/pheromessage/gossipset"
)

// actionKind is the kind of thing a node should do upon receiving a message.
// Only gossipModifySet is ever actually gossiped between nodes; the other
// three are in-band control actions a node recognizes on its own mailbox
// without forwarding them.
type actionKind int

const (
	// gossipModifySet is a change to the set arriving from a peer.
	gossipModifySet actionKind = iota
	// modifySet asks a node to originate a change and gossip it onward.
	modifySet
	// terminate asks a node to stop processing its mailbox.
	terminate
	// query asks a node to report whether element is present in its replica.
	query
)

// action is the payload of a message: which kind it is, and the fields
// relevant to that kind.
type action struct {
	kind    actionKind
	op      gossipset.Action // valid for gossipModifySet and modifySet
	element uint64           // valid for gossipModifySet, modifySet, and query
	answer  chan<- bool      // valid for query
}

// message is the envelope every simulated node's mailbox carries. It
// implements gossip.Message[uuid.UUID] so it can flow through
// gossip.UniformGossip/PreferentialGossip directly, the way a production
// application's own message type would.
type message struct {
	id     uuid.UUID
	action action
}

func newMessage(a action) message {
	return message{id: uuid.New(), action: a}
}

// ID implements gossip.Message[uuid.UUID].
func (m message) ID() uuid.UUID {
	return m.id
}

// set is the replica every node maintains: a gossipset.Set[uint64]
// extended so that Update only reacts to gossipModifySet messages,
// matching the driver's control actions not being treated as set changes.
type set struct {
	*gossipset.Set[uint64]
}

func newSet() set {
	return set{gossipset.NewSet[uint64]()}
}

// Update implements gossip.SharedData[message], shadowing the embedded
// gossipset.Set's own Update (which only knows about gossipset.Message).
func (s set) Update(m *message) {
	if m.action.kind != gossipModifySet {
		return
	}
	switch m.action.op {
	case gossipset.Add:
		s.AddItem(m.action.element)
	case gossipset.Remove:
		s.RemoveItem(m.action.element)
	}
}
