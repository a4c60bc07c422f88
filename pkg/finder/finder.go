package finder

import (
	"context"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtensions are the extensions searched for when a pattern names a
// directory.
var DefaultExtensions = []string{".yu"}

// SourceFinder is responsible for finding source files
type SourceFinder interface {
	// FindSources expands patterns into a sorted, duplicate free list of files
	FindSources(ctx context.Context, patterns []string) ([]string, error)
}

// DefaultFinder is the default implementation of SourceFinder. Patterns use
// doublestar syntax ("src/**/*.yu"); a pattern naming a directory matches
// every file below it with one of Extensions.
type DefaultFinder struct {
	fs         afero.Fs
	Extensions []string
}

var _ SourceFinder = (*DefaultFinder)(nil)

// NewDefaultFinder creates a new DefaultFinder
func NewDefaultFinder(fs afero.Fs) *DefaultFinder {
	return &DefaultFinder{fs: fs, Extensions: DefaultExtensions}
}

// FindSources implements SourceFinder
func (f *DefaultFinder) FindSources(ctx context.Context, patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		matches, err := f.expand(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("expanded pattern")
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func (f *DefaultFinder) expand(pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)

	if info, err := f.fs.Stat(filepath.FromSlash(pattern)); err == nil && info.IsDir() {
		var out []string
		for _, ext := range f.extensions() {
			matches, err := f.glob(path.Join(pattern, "**", "*"+ext))
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
		}
		return out, nil
	}

	return f.glob(pattern)
}

func (f *DefaultFinder) extensions() []string {
	if len(f.Extensions) == 0 {
		return DefaultExtensions
	}
	return f.Extensions
}

// glob matches pattern against the file system. io/fs paths cannot be
// rooted, so the static prefix of the pattern becomes the search root.
func (f *DefaultFinder) glob(pattern string) ([]string, error) {
	base, rest := doublestar.SplitPattern(pattern)

	fsys := f.fs
	if base != "." {
		fsys = afero.NewBasePathFs(f.fs, filepath.FromSlash(base))
	}

	matches, err := doublestar.Glob(afero.NewIOFS(fsys), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("matching %q: %w", pattern, err)
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if base != "." {
			m = path.Join(base, m)
		}
		out = append(out, filepath.FromSlash(strings.TrimPrefix(m, "./")))
	}
	return out, nil
}
