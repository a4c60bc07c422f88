package semantic_tokens

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/yurinview/pkg/highlight"
	"github.com/walteh/yurinview/pkg/semtok"
)

type Handler struct {
	fs     afero.Fs
	indent bool
}

func NewTokensCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "print LSP semantic tokens for a source file",
	}

	cmd.Flags().BoolVar(&me.indent, "indent", false, "indent the JSON output")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

type output struct {
	Legend semtok.Legend `json:"legend"`
	Data   []uint32      `json:"data"`
}

func (me *Handler) Run(ctx context.Context, out io.Writer, file string) error {
	data, err := afero.ReadFile(me.fs, file)
	if err != nil {
		return errors.Errorf("reading %s: %w", file, err)
	}

	tokens, err := semtok.GetTokensForText(ctx, highlight.NewEngine(), string(data))
	if err != nil {
		return errors.Errorf("computing tokens for %s: %w", file, err)
	}

	enc := json.NewEncoder(out)
	if me.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(output{Legend: semtok.DefaultLegend(), Data: tokens.Data}); err != nil {
		return errors.Errorf("encoding: %w", err)
	}
	return nil
}
