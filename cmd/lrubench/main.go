package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedisct1/dlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	lru "github.com/venkatsvpr/golang-lru/v3"
)

const AppVersion = "0.1.0"

func main() {
	if err := initLogging(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	configFile := flag.String("config", "lrubench.toml", "path to the configuration file")
	version := flag.Bool("version", false, "print current version")
	flag.Parse()

	if *version {
		fmt.Println(AppVersion)
		os.Exit(0)
	}

	config, err := LoadConfig(*configFile)
	if err != nil {
		dlog.Fatal(err)
	}
	configureLogging(&config)
	dlog.Noticef("lrubench %s", AppVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &config, os.Stdout); err != nil {
		dlog.Fatal(err)
	}
}

// initLogging registers dlog's command-line flags, so it runs once, before
// flag.Parse.
func initLogging() error {
	return dlog.Init("lrubench", dlog.SeverityNotice, "DAEMON")
}

func run(ctx context.Context, config *Config, out io.Writer) error {
	opts := []lru.Option[string, int]{lru.WithQueueSize[string, int](config.QueueSize)}

	if config.MetricsAddress != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, lru.WithMetrics[string, int](lru.NewMetrics(reg, "lrubench")))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: config.MetricsAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				dlog.Errorf("metrics server: %v", err)
			}
		}()
		defer server.Close()
		dlog.Noticef("Serving metrics on http://%s/metrics", config.MetricsAddress)
	}

	if config.EvictionLog != "" {
		w := Logger(config, config.EvictionLog)
		if c, ok := w.(io.Closer); ok {
			defer c.Close()
		}
		opts = append(opts, lru.WithEvict(func(key string, value int) {
			fmt.Fprintf(w, "[%s]\t%s\t%d\n", time.Now().Format(time.RFC3339), key, value)
		}))
	}

	cache, err := lru.New[string, int](config.Capacity, opts...)
	if err != nil {
		return err
	}
	defer cache.Close()

	dlog.Infof("Running %d workers x %d ops over %d keys each (capacity %d)",
		config.Workers, config.Ops, config.Keys, config.Capacity)
	start := time.Now()
	reports, err := runWorkload(ctx, cache, config)
	if err != nil {
		return err
	}
	stats, err := cache.Stats()
	if err != nil {
		return err
	}
	printReport(out, reports, stats, time.Since(start))
	return nil
}
