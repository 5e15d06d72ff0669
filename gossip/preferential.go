package gossip

// SeenCount saturates at MoreThanTwice; it exists only to distinguish the
// first, second, and later deliveries of a given message to a node.
type SeenCount int

const (
	SeenOnce SeenCount = iota
	SeenTwice
	SeenMoreThanTwice
)

func (c SeenCount) increment() SeenCount {
	switch c {
	case SeenOnce:
		return SeenTwice
	default:
		return SeenMoreThanTwice
	}
}

// PreferentialGossip is a Gossip engine that splits peers into primaries and
// secondaries. Primary nodes pass a message to other primaries the first
// time they see it and to secondaries the second time; secondary nodes pass
// a message to other secondaries only the first time they see it. Beyond
// that, a node drops the message instead of forwarding it again.
type PreferentialGossip[I comparable, M Message[I], P any, S SharedData[M], D Delivery[M, P]] struct {
	Primaries   []P
	Secondaries []P
	Primary     bool
	Data        S
	Delivery    D
	Fanout      int

	messageLog map[I]SeenCount
}

// NewPreferential creates a preferential gossip engine. primary indicates
// whether this node is itself one of the primaries.
func NewPreferential[I comparable, M Message[I], P any, S SharedData[M], D Delivery[M, P]](primaries, secondaries []P, primary bool, fanout int, data S, delivery D) *PreferentialGossip[I, M, P, S, D] {
	return &PreferentialGossip[I, M, P, S, D]{
		Primaries:   primaries,
		Secondaries: secondaries,
		Primary:     primary,
		Data:        data,
		Delivery:    delivery,
		Fanout:      fanout,
		messageLog:  make(map[I]SeenCount),
	}
}

func (g *PreferentialGossip[I, M, P, S, D]) incrementSeen(id I) SeenCount {
	count, ok := g.messageLog[id]
	if !ok {
		g.messageLog[id] = SeenOnce
		return SeenOnce
	}
	count = count.increment()
	g.messageLog[id] = count
	return count
}

// Receive handles a message arriving from a peer, routing it according to
// whether this node is primary or secondary and how many times it has seen
// this particular message ID before.
//
// Note on the routing table below: it applies to Receive only. Update always
// gossips to primaries regardless of whether the updating node is itself
// primary or secondary (see Update), whereas a secondary's first Receive goes
// to secondaries. That asymmetry is kept deliberately rather than "fixed",
// since changing it would change observable convergence behavior between
// primaries and secondaries.
func (g *PreferentialGossip[I, M, P, S, D]) Receive(message *M) error {
	id := (*message).ID()
	count := g.incrementSeen(id)
	if count == SeenOnce {
		g.Data.Update(message)
	}

	var targets []P
	switch {
	case g.Primary && count == SeenOnce:
		targets = g.Primaries
	case g.Primary && count == SeenTwice:
		targets = g.Secondaries
	case g.Primary:
		return nil
	case count == SeenOnce:
		targets = g.Secondaries
	default:
		return nil
	}
	return send[I](g.Delivery, message, targets, g.Fanout)
}

// Update applies a locally originated message to Data and gossips it to the
// primaries, marking it seen so a later Receive of the same message won't
// re-apply it.
func (g *PreferentialGossip[I, M, P, S, D]) Update(message *M) error {
	g.Data.Update(message)
	g.incrementSeen((*message).ID())
	return send[I](g.Delivery, message, g.Primaries, g.Fanout)
}

// Replica returns the underlying shared data.
func (g *PreferentialGossip[I, M, P, S, D]) Replica() S {
	return g.Data
}
