package main

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// latencyAggregate accumulates latency samples and can report percentiles.
// A production hdrhistogram-style streaming structure would scale better
// over very long runs, but no such library appears among this module's
// dependencies, so a plain sorted-sample approach is used here instead -
// see DESIGN.md for why that's a deliberate exception rather than an
// oversight.
type latencyAggregate struct {
	samples []time.Duration
}

func (a *latencyAggregate) addPoint(d time.Duration) {
	a.samples = append(a.samples, d)
}

func (a *latencyAggregate) meanMicros() float64 {
	if len(a.samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range a.samples {
		total += d
	}
	return float64(total.Microseconds()) / float64(len(a.samples))
}

func (a *latencyAggregate) percentileMicros(p float64) float64 {
	if len(a.samples) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(a.samples))
	copy(sorted, a.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(p / 100 * float64(len(sorted)-1))
	return float64(sorted[idx].Microseconds())
}

func lostPercent(lost, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(lost) / float64(total) * 100
}

// aggregator records the fate of elements inserted at a source node and
// observed (or not) at a target node, and knows how to fold itself into a
// Result at the end of a run.
type aggregator interface {
	recordLatency(sourceIndex, targetIndex int, latency time.Duration)
	recordLoss(sourceIndex, targetIndex int)
	log(logger *zap.Logger)
	applyTo(result *Result)
}

// uniformAggregator is used when the network has no primary/secondary
// distinction: every observation goes into one bucket.
type uniformAggregator struct {
	aggregate    latencyAggregate
	lostElements int
}

func (a *uniformAggregator) recordLatency(_, _ int, latency time.Duration) {
	a.aggregate.addPoint(latency)
}

func (a *uniformAggregator) recordLoss(_, _ int) {
	a.lostElements++
}

func (a *uniformAggregator) log(logger *zap.Logger) {
	logger.Info("gossip progress",
		zap.Int("elements", len(a.aggregate.samples)),
		zap.Float64("mean_micros", a.aggregate.meanMicros()),
		zap.Float64("p50_micros", a.aggregate.percentileMicros(50)),
		zap.Float64("p90_micros", a.aggregate.percentileMicros(90)),
		zap.Float64("p99_micros", a.aggregate.percentileMicros(99)),
		zap.Int("lost", a.lostElements),
		zap.Float64("lost_percent", lostPercent(a.lostElements, len(a.aggregate.samples)+a.lostElements)),
	)
}

func (a *uniformAggregator) applyTo(result *Result) {
	result.OverallMean = a.aggregate.meanMicros()
	result.OverallP50 = a.aggregate.percentileMicros(50)
	result.OverallP90 = a.aggregate.percentileMicros(90)
	result.OverallP99 = a.aggregate.percentileMicros(99)
	result.LostElements = a.lostElements
	result.LostPercent = lostPercent(a.lostElements, len(a.aggregate.samples)+a.lostElements)
}

// preferentialAggregator splits observations by whether the target node was
// a primary or a secondary.
type preferentialAggregator struct {
	numPrimaries      int
	primaries         latencyAggregate
	secondaries       latencyAggregate
	lostInPrimaries   int
	lostInSecondaries int
}

func newPreferentialAggregator(numPrimaries int) *preferentialAggregator {
	return &preferentialAggregator{numPrimaries: numPrimaries}
}

func (a *preferentialAggregator) recordLatency(_, targetIndex int, latency time.Duration) {
	if targetIndex < a.numPrimaries {
		a.primaries.addPoint(latency)
	} else {
		a.secondaries.addPoint(latency)
	}
}

func (a *preferentialAggregator) recordLoss(_, targetIndex int) {
	if targetIndex < a.numPrimaries {
		a.lostInPrimaries++
	} else {
		a.lostInSecondaries++
	}
}

func (a *preferentialAggregator) log(logger *zap.Logger) {
	logger.Info("gossip progress",
		zap.Int("elements", len(a.primaries.samples)+len(a.secondaries.samples)),
		zap.Float64("primary_mean_micros", a.primaries.meanMicros()),
		zap.Float64("secondary_mean_micros", a.secondaries.meanMicros()),
		zap.Int("lost_in_primaries", a.lostInPrimaries),
		zap.Int("lost_in_secondaries", a.lostInSecondaries),
	)
}

func (a *preferentialAggregator) applyTo(result *Result) {
	overall := latencyAggregate{samples: append(append([]time.Duration{}, a.primaries.samples...), a.secondaries.samples...)}
	result.OverallMean = overall.meanMicros()
	result.OverallP50 = overall.percentileMicros(50)
	result.OverallP90 = overall.percentileMicros(90)
	result.OverallP99 = overall.percentileMicros(99)
	result.LostElements = a.lostInPrimaries + a.lostInSecondaries
	result.LostPercent = lostPercent(result.LostElements, len(overall.samples)+result.LostElements)

	primaryMean := a.primaries.meanMicros()
	primaryP50 := a.primaries.percentileMicros(50)
	secondaryMean := a.secondaries.meanMicros()
	secondaryP50 := a.secondaries.percentileMicros(50)
	result.PrimaryMean = &primaryMean
	result.PrimaryP50 = &primaryP50
	result.SecondaryMean = &secondaryMean
	result.SecondaryP50 = &secondaryP50
}

func newAggregator(numPrimaries int) aggregator {
	if numPrimaries > 0 {
		return newPreferentialAggregator(numPrimaries)
	}
	return &uniformAggregator{}
}
