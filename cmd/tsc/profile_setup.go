package main

import (
	"fmt"
	"os"

	"tsc/internal/prof"
)

const (
	envCPUProfile   = "TSC_CPUPROFILE"
	envMemProfile   = "TSC_MEMPROFILE"
	envRuntimeTrace = "TSC_RUNTIME_TRACE"
)

// setupProfiling starts the profiles requested in the environment. The
// returned function writes them out.
func setupProfiling() (func(), error) {
	cfg := prof.Config{
		CPUProfile:   os.Getenv(envCPUProfile),
		MemProfile:   os.Getenv(envMemProfile),
		RuntimeTrace: os.Getenv(envRuntimeTrace),
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	s, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := s.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profile: %v\n", err)
		}
	}, nil
}
