/*
Package workers provides utilities for sizing CPU-bound work in
containerized environments.

# Overview

When running in containers (Docker, Kubernetes, etc.), the number of
available CPUs may be limited by cgroup constraints. While Go 1.19+
automatically sets GOMAXPROCS based on container CPU limits, the commonly
used runtime.NumCPU() function still returns the host machine's CPU count.

This package uses GOMAXPROCS to size thread and worker counts so the
application respects container resource limits.

# The Problem

Consider a Kubernetes pod with a CPU limit of 2 cores running on a
64-core node:

	// Wrong: Returns 64 (host CPUs), ignores container limit
	threads := runtime.NumCPU()

	// Correct: Returns 2 (respects container limit in Go 1.19+)
	threads := runtime.GOMAXPROCS(0)

The same mismatch applies to the conversion engine itself: ffmpeg's
thread auto-detection counts host CPUs, so a pod limited to 2 cores
spawns 64 encoder threads and spends its budget on context switching
and cgroup throttling.

# Engine Thread Sizing

EngineThreads resolves the -threads value passed to every conversion:

	// ENGINE_THREADS=0 auto-sizes from the container CPU limit
	threads := workers.EngineThreads(config.EngineThreads, 16)

	// An explicit setting wins, still capped
	threads := workers.EngineThreads(4, 16) // 4

# Custom Configuration

For other workloads, use Count directly:

	// CPU-bound work, one worker per available CPU, maximum of 8
	numWorkers := workers.ForCPU(8)

	// 2 workers per CPU, maximum of 24
	numWorkers := workers.Count(2.0, 24)

# Best Practices

 1. Always specify a maximum. Encoder throughput flattens well before
    16 threads for most codecs; more threads only add memory pressure.

 2. Keep the configured override path observable:

    threads := workers.EngineThreads(config.EngineThreads, 16)
    log.Printf("Engine threads: %d (GOMAXPROCS=%d)", threads, runtime.GOMAXPROCS(0))

# Thread Safety

All functions in this package are safe for concurrent use. They read
from runtime.GOMAXPROCS, which is itself thread-safe.

# Go Version Requirements

This package relies on Go 1.19+ behavior where GOMAXPROCS is
automatically set based on container CPU limits. On earlier Go versions,
GOMAXPROCS defaults to runtime.NumCPU(), and the container-awareness
benefits are lost.
*/
package workers
