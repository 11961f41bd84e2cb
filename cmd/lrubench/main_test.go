package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/powerman/check"

	lru "github.com/venkatsvpr/golang-lru/v3"
)

func smallConfig() *Config {
	config := newConfig()
	config.Capacity = 32
	config.Workers = 4
	config.Ops = 2000
	config.Keys = 64
	return &config
}

func TestRunWorkload(tt *testing.T) {
	t := check.T(tt)
	config := smallConfig()

	cache, err := lru.New[string, int](config.Capacity)
	t.Nil(err)
	defer cache.Close()

	reports, err := runWorkload(context.Background(), cache, config)
	t.Nil(err)
	t.Len(reports, config.Workers)

	var gets, adds int
	for _, r := range reports {
		t.Equal(r.Gets+r.Adds, config.Ops)
		t.LE(r.Hits, r.Gets)
		t.LE(r.Lost, r.Adds)
		gets += r.Gets
		adds += r.Adds
	}
	stats, err := cache.Stats()
	t.Nil(err)
	t.Equal(stats.Adds, uint64(adds))
	// every add is read back once
	t.Equal(stats.Hits+stats.Misses, uint64(gets+adds))

	n, err := cache.Len()
	t.Nil(err)
	t.Equal(n, config.Capacity)
}

func TestRunWorkload_Canceled(tt *testing.T) {
	t := check.T(tt)
	config := smallConfig()

	cache, err := lru.New[string, int](config.Capacity)
	t.Nil(err)
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runWorkload(ctx, cache, config)
	t.Err(err, context.Canceled)
}

func TestRun(tt *testing.T) {
	t := check.T(tt)
	config := smallConfig()
	config.EvictionLog = filepath.Join(t.TempDir(), "evictions.log")

	var out bytes.Buffer
	t.Nil(run(context.Background(), config, &out))
	t.Contains(out.String(), "worker 0:")
	t.Contains(out.String(), "worker 3:")
	t.Contains(out.String(), "hit rate")

	logged, err := os.ReadFile(config.EvictionLog)
	t.Nil(err)
	lines := strings.Split(strings.TrimSpace(string(logged)), "\n")
	t.Greater(len(lines), 0)
	t.Len(strings.Split(lines[0], "\t"), 3)
}
