// Command bench drives the hybrid index through a build-then-mixed-workload
// run and records the outcome for cross-run comparison. It is the harness
// around the core library, not part of the library itself.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"hybridkv/pkg/bench"
	"hybridkv/pkg/common"
	"hybridkv/pkg/config"
	"hybridkv/pkg/core"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults built in if empty)")
	initialKeys := flag.Int("initial", 1_000_000, "number of keys bulk-loaded before the workload starts")
	insertKeys := flag.Int("inserts", 50_000, "number of fresh keys inserted during the workload")
	lookups := flag.Int("lookups", 200_000, "number of lookups issued during the workload")
	historyPath := flag.String("history", "bench_history.db", "path to the SQLite run-history database")
	seed := flag.Int64("seed", 1, "random seed for the lookup key sample")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil && *configPath != "" {
		log.Fatalf("failed to load config: %v", err)
	}

	h := core.NewHybrid(cfg)
	defer h.Close()

	data := make([]common.KeyValue, *initialKeys)
	for i := range data {
		data[i] = common.KeyValue{Key: uint64(i * 2), Value: uint64(i * 2)}
	}

	fmt.Printf("%s: building with %d keys...\n", h.Name(), *initialKeys)
	buildTime := h.Build(data, 1)
	fmt.Printf("  build time: %v\n", buildTime)

	rng := rand.New(rand.NewSource(*seed))

	fmt.Printf("inserting %d fresh keys...\n", *insertKeys)
	insertStart := time.Now()
	for i := 0; i < *insertKeys; i++ {
		key := uint64(i*2 + 1)
		h.Insert(common.KeyValue{Key: key, Value: key}, 0)
	}
	insertElapsed := time.Since(insertStart)

	fmt.Printf("running %d lookups...\n", *lookups)
	lookupStart := time.Now()
	var hits int
	for i := 0; i < *lookups; i++ {
		key := uint64(rng.Intn(*initialKeys + *insertKeys))
		if h.EqualityLookup(key, 0) != common.NotFound {
			hits++
		}
	}
	lookupElapsed := time.Since(lookupStart)

	totalOps := *insertKeys + *lookups
	totalElapsed := insertElapsed + lookupElapsed
	throughput := float64(totalOps) / totalElapsed.Seconds()

	stats := h.Stats()
	fmt.Printf("  insert time: %v | lookup time: %v | hits: %d/%d | throughput: %.0f ops/sec\n",
		insertElapsed, lookupElapsed, hits, *lookups, throughput)
	fmt.Printf("  migrations: %d complete, %d aborted\n", stats["migration_complete"], stats["migration_aborts"])

	hist, err := bench.OpenHistory(*historyPath)
	if err != nil {
		log.Fatalf("failed to open run history: %v", err)
	}
	defer hist.Close()

	run := bench.Run{
		Name:             h.Name(),
		BuildTimeNs:      buildTime.Nanoseconds(),
		InitialKeys:      int64(*initialKeys),
		InsertedKeys:     int64(*insertKeys),
		LookupCount:      int64(*lookups),
		LookupHits:       int64(hits),
		MigrationsRun:    int64(stats["migration_complete"]),
		MigrationsAbort:  int64(stats["migration_aborts"]),
		ThroughputOpsSec: throughput,
	}
	if err := hist.Record(run); err != nil {
		log.Fatalf("failed to record run: %v", err)
	}

	recent, err := hist.Recent(5)
	if err != nil {
		log.Fatalf("failed to read run history: %v", err)
	}
	fmt.Println("recent runs:")
	for _, r := range recent {
		fmt.Printf("  %-30s throughput=%.0f ops/sec migrations=%d\n", r.Name, r.ThroughputOpsSec, r.MigrationsRun)
	}
}
