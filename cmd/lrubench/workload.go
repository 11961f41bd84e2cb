package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/VividCortex/ewma"
	"golang.org/x/sync/errgroup"

	lru "github.com/venkatsvpr/golang-lru/v3"
)

const latencyEwmaDecay = 10.0

type workerReport struct {
	Worker int
	Gets   int
	Adds   int
	Hits   int
	// Adds whose key was evicted by another worker before the read-back.
	Lost    int
	Latency ewma.MovingAverage // microseconds
}

// runWorkload drives cache from config.Workers goroutines, each on its own
// handle and its own slice of the key space. Every add is read back; a value
// other than the one just written fails the run.
func runWorkload(ctx context.Context, cache *lru.Cache[string, int], config *Config) ([]*workerReport, error) {
	reports := make([]*workerReport, config.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < config.Workers; w++ {
		report := &workerReport{Worker: w, Latency: ewma.NewMovingAverage(latencyEwmaDecay)}
		reports[w] = report
		h := cache.Clone()
		g.Go(func() error {
			defer h.Close()
			return runWorker(ctx, h, config, report)
		})
	}
	return reports, g.Wait()
}

func runWorker(ctx context.Context, h *lru.Cache[string, int], config *Config, report *workerReport) error {
	rng := rand.New(rand.NewSource(config.Seed + int64(report.Worker)))
	written := make(map[string]int)

	timed := func(f func() error) error {
		start := time.Now()
		err := f()
		report.Latency.Add(float64(time.Since(start).Microseconds()))
		return err
	}

	for i := 0; i < config.Ops; i++ {
		key := fmt.Sprintf("w%d/k%d", report.Worker, rng.Intn(config.Keys))

		if rng.Float64() < config.ReadRatio {
			var v int
			var ok bool
			err := timed(func() (err error) {
				v, ok, err = h.GetContext(ctx, key)
				return err
			})
			if err != nil {
				return err
			}
			report.Gets++
			if ok {
				report.Hits++
				if want, seen := written[key]; !seen || v != want {
					return fmt.Errorf("worker %d: %s holds %d, last write was %d", report.Worker, key, v, want)
				}
			}
			continue
		}

		if err := timed(func() error {
			_, err := h.AddContext(ctx, key, i)
			return err
		}); err != nil {
			return err
		}
		report.Adds++
		written[key] = i

		v, ok, err := h.GetContext(ctx, key)
		if err != nil {
			return err
		}
		switch {
		case !ok:
			report.Lost++
		case v != i:
			return fmt.Errorf("worker %d: read %d back from %s right after writing %d", report.Worker, v, key, i)
		}
	}
	return nil
}

func printReport(out io.Writer, reports []*workerReport, stats lru.Stats, elapsed time.Duration) {
	var ops int
	for _, r := range reports {
		ops += r.Gets + r.Adds
		fmt.Fprintf(out, "worker %d: %d gets (%d hits), %d adds, %d lost before read-back, ewma latency %.1fus\n",
			r.Worker, r.Gets, r.Hits, r.Adds, r.Lost, r.Latency.Value())
	}
	fmt.Fprintf(out, "cache: %d hits, %d misses, %d adds, %d evictions, hit rate %.3f\n",
		stats.Hits, stats.Misses, stats.Adds, stats.Evictions, stats.HitRate())
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(out, "%d operations in %v (%.0f ops/s)\n", ops, elapsed.Round(time.Millisecond), float64(ops)/secs)
	}
}
