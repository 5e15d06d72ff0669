package gossip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestPreferentialForwardingTableProperty checks, across an arbitrary
// number of repeated deliveries of the same message ID, that the node
// applies the message to Data exactly once (on the first delivery) and
// forwards to exactly the target set the routing table prescribes for
// each subsequent delivery count, never beyond SeenMoreThanTwice.
func TestPreferentialForwardingTableProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		isPrimary := rapid.Bool().Draw(t, "isPrimary")
		numDeliveries := rapid.IntRange(1, 6).Draw(t, "numDeliveries")

		primaries := []int{100, 101}
		secondaries := []int{200, 201}
		delivery := newRecordingDelivery()
		data := &intLog{}
		engine := NewPreferential[int, intMessage](primaries, secondaries, isPrimary, 2, data, delivery)

		message := intMessage(7)
		for i := 1; i <= numDeliveries; i++ {
			delivery.received = make(map[int][]int)
			require.NoError(t, engine.Receive(&message))

			var wantTargets []int
			switch {
			case isPrimary && i == 1:
				wantTargets = primaries
			case isPrimary && i == 2:
				wantTargets = secondaries
			case isPrimary:
				wantTargets = nil
			case i == 1:
				wantTargets = secondaries
			default:
				wantTargets = nil
			}

			gotTargets := make([]int, 0, len(delivery.received))
			for ep := range delivery.received {
				gotTargets = append(gotTargets, ep)
			}
			assert.ElementsMatch(t, wantTargets, gotTargets)
		}

		assert.Equal(t, []int{7}, data.values)
	})
}
