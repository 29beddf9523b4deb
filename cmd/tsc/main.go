package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tsc/internal/core"
	"tsc/internal/execute"
	"tsc/internal/host"
)

// status is the exit status of the executed command line.
var status core.ExitStatus

var rootCmd = &cobra.Command{
	Use:                "tsc [options] [file...]",
	Short:              "TypeScript compiler driver",
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling()
		if err != nil {
			return err
		}
		defer stopProfiling()
		status, err = traced(cmd, func(ctx context.Context) core.ExitStatus {
			return execute.CommandLine(ctx, host.NewOSSystem(), args)
		})
		return err
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(status.Code())
}
