package main

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mooso/pheromessage/gossip"
)

// mailboxSize mirrors localnet's buffering choice for the same reason: keep
// a node's own sends from blocking on its peers' catch-up.
const mailboxSize = 256

// channelDelivery is a gossip.Delivery[message, chan<- message] over plain
// Go channels, the same shape as localnet's but kept private here since the
// driver's message type carries control actions localnet never sees.
type channelDelivery struct{}

func (channelDelivery) Deliver(m *message, endpoints []chan<- message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gossipsim: send to closed mailbox: %v", r)
		}
	}()
	for _, endpoint := range endpoints {
		endpoint <- *m
	}
	return nil
}

// engine is the common surface of gossip.UniformGossip[...] and
// gossip.PreferentialGossip[...] once instantiated for this driver's
// message and replica types.
type engine interface {
	Receive(message *message) error
	Update(message *message) error
	Replica() set
}

type node struct {
	engine  engine
	mailbox chan message
	sender  chan<- message
}

// newFlatNetwork builds a full-mesh network of numNodes nodes using uniform
// gossip: every node knows every other node directly. This is the shape
// lset.rs's driver exercises.
func newFlatNetwork(numNodes, fanout int) []*node {
	mailboxes := make([]chan message, numNodes)
	for i := range mailboxes {
		mailboxes[i] = make(chan message, mailboxSize)
	}

	nodes := make([]*node, numNodes)
	for i := 0; i < numNodes; i++ {
		peers := make([]chan<- message, 0, numNodes-1)
		for j, mailbox := range mailboxes {
			if i != j {
				peers = append(peers, mailbox)
			}
		}
		eng := gossip.NewUniform[uuid.UUID, message](peers, fanout, newSet(), channelDelivery{})
		nodes[i] = &node{engine: eng, mailbox: mailboxes[i], sender: mailboxes[i]}
	}
	return nodes
}

// newPreferentialNetwork is newFlatNetwork's preferential-gossip
// counterpart. The first numPrimaries nodes are primaries.
func newPreferentialNetwork(numNodes, numPrimaries, fanout int) []*node {
	mailboxes := make([]chan message, numNodes)
	for i := range mailboxes {
		mailboxes[i] = make(chan message, mailboxSize)
	}

	nodes := make([]*node, numNodes)
	for i := 0; i < numNodes; i++ {
		primary := i < numPrimaries
		var primaries, secondaries []chan<- message
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
		eng := gossip.NewPreferential[uuid.UUID, message](primaries, secondaries, primary, fanout, newSet(), channelDelivery{})
		nodes[i] = &node{engine: eng, mailbox: mailboxes[i], sender: mailboxes[i]}
	}
	return nodes
}

// runNode processes n's mailbox until it sees a terminate action or the
// mailbox is closed. It is the only goroutine ever allowed to touch n's
// engine, per the confinement rule every adapter in this module follows.
func runNode(logger *zap.Logger, n *node) {
	for m := range n.mailbox {
		switch m.action.kind {
		case gossipModifySet:
			if err := n.engine.Receive(&m); err != nil {
				logger.Debug("gossipsim: receive error", zap.Error(err))
			}
		case modifySet:
			gossiped := message{id: m.id, action: action{kind: gossipModifySet, op: m.action.op, element: m.action.element}}
			if err := n.engine.Update(&gossiped); err != nil {
				logger.Debug("gossipsim: update error", zap.Error(err))
			}
		case terminate:
			return
		case query:
			m.action.answer <- n.engine.Replica().IsPresent(m.action.element)
		}
	}
}
