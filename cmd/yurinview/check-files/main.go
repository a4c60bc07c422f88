package check_files

import (
	"context"
	"encoding/json"
	"io"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/yurinview/pkg/diagnostic"
	"github.com/walteh/yurinview/pkg/finder"
	"github.com/walteh/yurinview/pkg/highlight"
	"github.com/walteh/yurinview/pkg/render"
)

var ErrSyntax = errors.Base("syntax errors found")

type Handler struct {
	fs     afero.Fs
	format string // text, json
	color  string // auto, always, never
	jobs   int
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "check <pattern>...",
		Short: "report syntax errors in source files",
		Long: `check reports the syntax errors of every source file matching the given
patterns. Patterns are doublestar globs; a directory stands for every
source file below it. The command fails when any file has errors.`,
	}

	cmd.Flags().StringVar(&me.format, "format", "text", "the output format (text, json)")
	cmd.Flags().StringVar(&me.color, "color", "auto", "when to color text output (auto, always, never)")
	cmd.Flags().IntVar(&me.jobs, "jobs", runtime.GOMAXPROCS(0), "number of files checked at once")
	cmd.Args = cobra.MinimumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

type fileDiagnostics struct {
	File        string          `json:"file"`
	Diagnostics json.RawMessage `json:"diagnostics"`
}

func (me *Handler) Run(ctx context.Context, out io.Writer, patterns []string) error {
	if me.format != "text" && me.format != "json" {
		return errors.Errorf("unknown format %q (want text or json)", me.format)
	}
	mode, err := render.ParseColorMode(me.color)
	if err != nil {
		return err
	}

	files, err := finder.NewDefaultFinder(me.fs).FindSources(ctx, patterns)
	if err != nil {
		return err
	}

	reports, failures, err := me.check(ctx, files)
	if err != nil {
		return err
	}

	colorize := mode.Enabled(out)
	vscode := diagnostic.NewVSCodeFormatter()
	count, failing := 0, 0

	for _, report := range reports {
		if report == nil {
			continue
		}
		if len(report.Errors) > 0 {
			count += len(report.Errors)
			failing++
		}

		switch me.format {
		case "text":
			if len(report.Errors) == 0 {
				continue
			}
			text, err := diagnostic.NewTextFormatter(report.Filename, colorize).Format(report)
			if err != nil {
				return err
			}
			if _, err := out.Write(text); err != nil {
				return errors.Errorf("writing: %w", err)
			}
		case "json":
			raw, err := vscode.Format(report)
			if err != nil {
				return err
			}
			line, err := json.Marshal(fileDiagnostics{File: report.Filename, Diagnostics: raw})
			if err != nil {
				return errors.Errorf("encoding %s: %w", report.Filename, err)
			}
			if _, err := out.Write(append(line, '\n')); err != nil {
				return errors.Errorf("writing: %w", err)
			}
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("files", len(files)).
		Int("failing", failing).
		Int("errors", count).
		Msg("check complete")

	if count > 0 {
		failures = multierr.Append(failures, errors.Errorf("%w: %d in %d of %d files", ErrSyntax, count, failing, len(files)))
	}
	return failures
}

// check parses files concurrently. Reports come back in the order of files;
// a file that could not be read leaves a nil report and an entry in
// failures. err is only set when checking itself was abandoned.
func (me *Handler) check(ctx context.Context, files []string) (reports []*diagnostic.Diagnostics, failures error, err error) {
	reports = make([]*diagnostic.Diagnostics, len(files))

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if me.jobs > 0 {
		g.SetLimit(me.jobs)
	}

	for i, file := range files {
		g.Go(func() error {
			data, err := afero.ReadFile(me.fs, file)
			if err != nil {
				mu.Lock()
				failures = multierr.Append(failures, errors.Errorf("reading %s: %w", file, err))
				mu.Unlock()
				return nil
			}

			source := string(data)
			diags, err := highlight.GetErrors(gctx, source)
			if err != nil {
				return errors.Errorf("checking %s: %w", file, err)
			}

			reports[i] = &diagnostic.Diagnostics{Filename: file, Source: source, Errors: diags}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return reports, failures, nil
}
