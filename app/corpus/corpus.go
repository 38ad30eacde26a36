// Package corpus reads labeled document directories, evaluates a classifier against them and
// watches them for changes. Every *.txt file of a directory is a single document.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-pkgz/fileutils"
	"golang.org/x/sync/errgroup"
)

// ErrDirNotFound returned for a missing corpus directory
var ErrDirNotFound = errors.New("corpus directory not found")

// Document is a single corpus file
type Document struct {
	Path string
	Text string
}

// Files returns sorted paths of all documents in the directory and its subdirectories
func Files(dir string) ([]string, error) {
	if !fileutils.IsDir(dir) {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}
	all, err := fileutils.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("can't list %s: %w", dir, err)
	}
	res := make([]string, 0, len(all))
	for _, f := range all {
		if strings.EqualFold(filepath.Ext(f), ".txt") {
			res = append(res, f)
		}
	}
	sort.Strings(res)
	return res, nil
}

// Read loads all documents of the directory, using up to workers parallel readers.
// Documents are returned in the order of Files.
func Read(ctx context.Context, dir string, workers int) ([]Document, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	res := make([]Document, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f) //nolint:gosec // path from the configured corpus
			if err != nil {
				return fmt.Errorf("can't read %s: %w", f, err)
			}
			res[i] = Document{Path: f, Text: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Texts iterates over document texts
func Texts(docs []Document) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, d := range docs {
			if !yield(d.Text) {
				return
			}
		}
	}
}

// Sources iterates over document paths relative to dir, with readers of their texts
func Sources(dir string, docs []Document) iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, d := range docs {
			name, err := filepath.Rel(dir, d.Path)
			if err != nil {
				name = d.Path
			}
			if !yield(name, strings.NewReader(d.Text)) {
				return
			}
		}
	}
}
