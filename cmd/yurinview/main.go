package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"

	check_files "github.com/walteh/yurinview/cmd/yurinview/check-files"
	dump_skeleton "github.com/walteh/yurinview/cmd/yurinview/dump-skeleton"
	highlight_file "github.com/walteh/yurinview/cmd/yurinview/highlight-file"
	semantic_tokens "github.com/walteh/yurinview/cmd/yurinview/semantic-tokens"
	"github.com/walteh/yurinview/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var debugLogging bool

	rootCmd := &cobra.Command{
		Use:           "yurinview",
		Short:         "A tool for highlighting and checking Yurin source",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "enable debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		ctx := logging.WithContext(cmd.Context(), cmd.ErrOrStderr(), logging.Options{
			Debug: debugLogging,
			Color: term.IsTerminal(int(os.Stderr.Fd())),
		})
		cmd.SetContext(ctx)
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)

	rootCmd.AddCommand(highlight_file.NewHighlightCommand())
	rootCmd.AddCommand(check_files.NewCheckCommand())
	rootCmd.AddCommand(dump_skeleton.NewSkeletonCommand())
	rootCmd.AddCommand(semantic_tokens.NewTokensCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
