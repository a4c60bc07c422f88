package dump_skeleton

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/yurinview/pkg/highlight"
	"github.com/walteh/yurinview/pkg/skeleton"
)

type Handler struct {
	fs      afero.Fs
	outline bool
}

func NewSkeletonCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "skeleton <file>",
		Short: "print the declaration skeleton of a source file",
	}

	cmd.Flags().BoolVar(&me.outline, "outline", false, "print the qualified type outline instead of the full tree")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, file string) error {
	data, err := afero.ReadFile(me.fs, file)
	if err != nil {
		return errors.Errorf("reading %s: %w", file, err)
	}

	a, err := highlight.Analyze(ctx, string(data))
	if err != nil {
		return errors.Errorf("analyzing %s: %w", file, err)
	}

	if !me.outline {
		_, err = fmt.Fprintln(out, skeleton.Dump(a.Skeleton))
		return err
	}

	for _, q := range a.Outline {
		if _, err := fmt.Fprintf(out, "%-5s %s\n", q.Kind, q); err != nil {
			return err
		}
	}
	return nil
}
