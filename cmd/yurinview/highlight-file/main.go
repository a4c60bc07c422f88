package highlight_file

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/yurinview/pkg/diagnostic"
	"github.com/walteh/yurinview/pkg/highlight"
	"github.com/walteh/yurinview/pkg/render"
	"github.com/walteh/yurinview/pkg/style"
)

type Handler struct {
	fs     afero.Fs
	theme  string
	format string // ansi, json
	color  string // auto, always, never
}

func NewHighlightCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "highlight <file>...",
		Short: "print source files with syntax highlighting",
	}

	cmd.Flags().StringVar(&me.theme, "theme", "", "theme file (.hcl, .yaml or .toml) overlaid on the default theme")
	cmd.Flags().StringVar(&me.format, "format", "ansi", "the output format (ansi, json)")
	cmd.Flags().StringVar(&me.color, "color", "auto", "when to color ansi output (auto, always, never)")
	cmd.Args = cobra.MinimumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

type fileHighlights struct {
	File        string                  `json:"file"`
	Highlights  []style.Highlight       `json:"highlights"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

func (me *Handler) Run(ctx context.Context, out io.Writer, files []string) error {
	mode, err := render.ParseColorMode(me.color)
	if err != nil {
		return err
	}
	if me.format != "ansi" && me.format != "json" {
		return errors.Errorf("unknown format %q (want ansi or json)", me.format)
	}

	opts := []highlight.Option{}
	if me.theme != "" {
		theme, err := style.LoadTheme(ctx, me.fs, me.theme)
		if err != nil {
			return err
		}
		opts = append(opts, highlight.WithTheme(theme))
	}
	engine := highlight.NewEngine(opts...)

	colorize := mode.Enabled(out)
	enc := json.NewEncoder(out)

	for _, file := range files {
		data, err := afero.ReadFile(me.fs, file)
		if err != nil {
			return errors.Errorf("reading %s: %w", file, err)
		}
		source := string(data)

		hs, diags, err := engine.Highlight(ctx, source)
		if err != nil {
			return errors.Errorf("highlighting %s: %w", file, err)
		}

		switch me.format {
		case "ansi":
			if err := render.ANSI(out, source, hs, colorize); err != nil {
				return err
			}
		case "json":
			if hs == nil {
				hs = []style.Highlight{}
			}
			if diags == nil {
				diags = []diagnostic.Diagnostic{}
			}
			if err := enc.Encode(fileHighlights{File: file, Highlights: hs, Diagnostics: diags}); err != nil {
				return errors.Errorf("encoding %s: %w", file, err)
			}
		}
	}

	return nil
}
