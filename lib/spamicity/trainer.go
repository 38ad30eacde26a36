package spamicity

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"golang.org/x/sync/errgroup"
)

// ErrTrainerFinished returned on trainer use after the table was computed
var ErrTrainerFinished = errors.New("training already finished")

// Document is a labeled list of terms
type Document struct {
	Class Class
	Terms []string
}

// Trainer enforces the two training phases: documents are recorded first, then the table is
// computed exactly once. Reset starts a new cycle.
type Trainer struct {
	MinDocFrequency int // terms with document frequency <= MinDocFrequency are pruned

	stats    *TermStats
	finished bool
}

// NewTrainer makes a trainer with the given pruning threshold
func NewTrainer(minDocFrequency int) *Trainer {
	return &Trainer{MinDocFrequency: minDocFrequency, stats: NewTermStats()}
}

// Record adds a document
func (t *Trainer) Record(class Class, terms ...string) error {
	if t.finished {
		return ErrTrainerFinished
	}
	return t.stats.RecordDocument(class, terms...)
}

// Merge adds statistics collected elsewhere, i.e. by a parallel worker
func (t *Trainer) Merge(stats *TermStats) error {
	if t.finished {
		return ErrTrainerFinished
	}
	t.stats.Merge(stats)
	return nil
}

// Compute builds the table and closes the recording phase
func (t *Trainer) Compute() (*Table, error) {
	if t.finished {
		return nil, ErrTrainerFinished
	}
	t.finished = true
	return Compute(t.stats, t.MinDocFrequency), nil
}

// Reset drops all recorded documents and opens a new recording phase
func (t *Trainer) Reset() {
	t.stats.Reset()
	t.finished = false
}

// Train records all documents and computes the table
func Train(docs iter.Seq[Document], minDocFrequency int) (*Table, error) {
	tr := NewTrainer(minDocFrequency)
	for doc := range docs {
		if err := tr.Record(doc.Class, doc.Terms...); err != nil {
			return nil, fmt.Errorf("can't record document: %w", err)
		}
	}
	return tr.Compute()
}

// TrainParallel spreads documents over workers, each filling its own statistics.
// Partial statistics are merged by summation, so the result is the same as with Train.
func TrainParallel(ctx context.Context, docs []Document, workers, minDocFrequency int) (*Table, error) {
	if workers < 1 {
		workers = 1
	}
	partial := make([]*TermStats, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		partial[w] = NewTermStats()
		g.Go(func() error {
			for i := w; i < len(docs); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := partial[w].RecordDocument(docs[i].Class, docs[i].Terms...); err != nil {
					return fmt.Errorf("can't record document %d: %w", i, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tr := NewTrainer(minDocFrequency)
	for _, st := range partial {
		if err := tr.Merge(st); err != nil {
			return nil, err
		}
	}
	return tr.Compute()
}
