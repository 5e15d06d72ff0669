package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mooso/pheromessage/gossipset"
	"github.com/mooso/pheromessage/internal/backoff"
)

// config is the parsed form of the CLI flags, independent of cobra/viper so
// the simulation logic stays easy to unit test.
type config struct {
	nodes       int
	fanout      int
	primaries   int
	runTime     time.Duration
	lossTimeout time.Duration
	resultsFile string
	metricsAddr string
}

func runSimulation(ctx context.Context, logger *zap.Logger, cfg config) (Result, error) {
	var nodes []*node
	if cfg.primaries > 0 {
		nodes = newPreferentialNetwork(cfg.nodes, cfg.primaries, cfg.fanout)
	} else {
		nodes = newFlatNetwork(cfg.nodes, cfg.fanout)
	}

	var wg sync.WaitGroup
	for _, n := range nodes {
		n := n
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNode(logger, n)
		}()
	}

	metrics := newSimMetrics()
	if cfg.metricsAddr != "" {
		if err := serveMetrics(ctx, logger, cfg.metricsAddr); err != nil {
			logger.Warn("gossipsim: metrics server did not start", zap.Error(err))
		}
	}

	logger.Info("gossipsim: running", zap.Int("nodes", cfg.nodes), zap.Int("fanout", cfg.fanout))

	agg := newAggregator(cfg.primaries)
	start := time.Now()
	end := start.Add(cfg.runTime)
	logPeriod := time.Second
	nextLog := start.Add(logPeriod)

	for time.Now().Before(end) {
		element := rand.Uint64()
		sourceIndex := rand.Intn(len(nodes))
		targetIndex := rand.Intn(len(nodes))

		nodes[sourceIndex].sender <- newMessage(action{kind: modifySet, op: gossipset.Add, element: element})

		outcome, latency := waitForElement(nodes[targetIndex].sender, element, end, cfg.lossTimeout)
		switch outcome {
		case appeared:
			agg.recordLatency(sourceIndex, targetIndex, latency)
			metrics.elementsInserted.Inc()
			metrics.deliveryLatency.Observe(latency.Seconds())
		case lost:
			agg.recordLoss(sourceIndex, targetIndex)
			metrics.elementsInserted.Inc()
			metrics.elementsLost.Inc()
		case endTimeReached:
			goto done
		}

		if now := time.Now(); !now.Before(nextLog) {
			agg.log(logger)
			nextLog = now.Add(logPeriod)
		}
	}
done:

	logger.Info("gossipsim: terminating")
	for _, n := range nodes {
		select {
		case n.sender <- newMessage(action{kind: terminate}):
		default:
			// The node's mailbox is full or it has already exited on its
			// own; a failed terminate send at shutdown isn't worth failing
			// the run over.
			logger.Debug("gossipsim: could not send terminate, node may already be stopping")
		}
	}
	wg.Wait()

	result := Result{
		Nodes:        cfg.nodes,
		Fanout:       cfg.fanout,
		PeersPerNode: cfg.nodes - 1,
		Primaries:    cfg.primaries,
	}
	agg.applyTo(&result)

	if cfg.resultsFile != "" {
		if err := appendResult(cfg.resultsFile, result); err != nil {
			return result, fmt.Errorf("gossipsim: writing results file: %w", err)
		}
	}

	return result, nil
}

func appendResult(path string, result Result) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	encoded, err := json.Marshal(result)
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')
	_, err = f.Write(encoded)
	return err
}

// serveMetrics starts the Prometheus /metrics HTTP listener in the
// background. Binding sometimes races a just-exited previous run still
// holding the port in TIME_WAIT, so a few quick retries are given before
// giving up.
func serveMetrics(ctx context.Context, logger *zap.Logger, addr string) error {
	var listener net.Listener
	policy := backoff.Policy{MaxAttempts: 5, MaxWait: 2 * time.Second, Logger: logger}
	err := policy.Retry(ctx, func() error {
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		listener = l
		return nil
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Handler: mux}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("gossipsim: metrics server stopped", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("gossipsim: serving metrics", zap.String("addr", listener.Addr().String()))
	return nil
}
