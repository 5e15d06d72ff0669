package main

import "time"

// waitOutcome is the result of waiting for an inserted element to show up
// at its target node.
type waitOutcome int

const (
	// appeared means the element was observed; waitForElement also returns
	// how long after insertion that happened.
	appeared waitOutcome = iota
	// lost means the loss timeout elapsed before the element appeared.
	lost
	// endTimeReached means the run's overall end time arrived first.
	endTimeReached
)

// waitForElement polls targetNode's replica (via a query round-trip) until
// element shows up, the loss timeout elapses, or endTime is reached -
// whichever comes first.
func waitForElement(targetSender chan<- message, element uint64, endTime time.Time, lossTimeout time.Duration) (waitOutcome, time.Duration) {
	insertionTime := time.Now()
	var lossDeadline time.Time
	hasLossDeadline := lossTimeout > 0
	if hasLossDeadline {
		lossDeadline = insertionTime.Add(lossTimeout)
	}

	answers := make(chan bool, 1)
	for {
		now := time.Now()
		if !now.Before(endTime) {
			return endTimeReached, 0
		}

		targetSender <- newMessage(action{kind: query, element: element, answer: answers})

		timeout := endTime.Sub(now)
		timeoutResult := endTimeReached
		if hasLossDeadline {
			if remaining := lossDeadline.Sub(now); remaining < timeout {
				timeout = remaining
				timeoutResult = lost
			}
		}

		select {
		case present := <-answers:
			if present {
				return appeared, time.Since(insertionTime)
			}
			if hasLossDeadline && !time.Now().Before(lossDeadline) {
				return lost, 0
			}
		case <-time.After(timeout):
			return timeoutResult, 0
		}
	}
}
