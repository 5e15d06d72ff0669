package gossip

// UniformGossip is a Gossip engine that treats every peer the same: a
// message is applied and forwarded the first time it's seen, and dropped
// silently on every later delivery.
type UniformGossip[I comparable, M Message[I], P any, S SharedData[M], D Delivery[M, P]] struct {
	Peers    []P
	Data     S
	Delivery D
	Fanout   int

	seen map[I]struct{}
}

// NewUniform creates a uniform gossip engine that forwards to peers using
// delivery, maintaining data, with each message delivered to a random subset
// of peers of size fanout.
func NewUniform[I comparable, M Message[I], P any, S SharedData[M], D Delivery[M, P]](peers []P, fanout int, data S, delivery D) *UniformGossip[I, M, P, S, D] {
	return &UniformGossip[I, M, P, S, D]{
		Peers:    peers,
		Data:     data,
		Delivery: delivery,
		Fanout:   fanout,
		seen:     make(map[I]struct{}),
	}
}

// Receive handles a message arriving from a peer. The first time a given
// message ID is seen it's applied to Data and re-gossiped; repeats are
// dropped.
func (g *UniformGossip[I, M, P, S, D]) Receive(message *M) error {
	id := (*message).ID()
	if _, dup := g.seen[id]; dup {
		return nil
	}
	g.seen[id] = struct{}{}
	g.Data.Update(message)
	return send[I](g.Delivery, message, g.Peers, g.Fanout)
}

// Update applies a locally originated message to Data and gossips it to
// peers, without requiring it to have arrived from the network first.
func (g *UniformGossip[I, M, P, S, D]) Update(message *M) error {
	g.Data.Update(message)
	g.seen[(*message).ID()] = struct{}{}
	return send[I](g.Delivery, message, g.Peers, g.Fanout)
}

// Replica returns the underlying shared data.
func (g *UniformGossip[I, M, P, S, D]) Replica() S {
	return g.Data
}
