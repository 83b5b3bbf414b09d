package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	output      string
	envFiles    []string
	metricsFile string
}

func execute(args []string) int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "profilectl",
		Short:         "Administer back office profiles",
		Long:          "Manage profiles, their localized texts and their resource and module access.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return validateOutputFormat(opts.output)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "yaml", "Output format (yaml, json)")
	rootCmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "Environment files to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "Write action metrics to this file on exit")

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newProfileCmd(opts),
		newUserCmd(opts),
		newCheckCmd(opts),
	)
	return rootCmd
}

// run opens the application for cmd, calls fn and prints its result.
func run(cmd *cobra.Command, opts *rootOptions, fn func(*app) (any, error)) error {
	a, err := newApp(cmd.Context(), cmd.ErrOrStderr(), opts.envFiles...)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := fn(a)
	if merr := a.writeMetrics(opts.metricsFile); merr != nil {
		a.logger.WithError(merr).Warn("metrics not written")
	}
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return printOutput(cmd.OutOrStdout(), opts.output, result)
}
