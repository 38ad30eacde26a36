package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/umputun/spamicity/app/corpus"
	"github.com/umputun/spamicity/app/storage"
	"github.com/umputun/spamicity/app/storage/engine"
	"github.com/umputun/spamicity/lib/spamicity"
)

// stores is a set of storages sharing a single database
type stores struct {
	db      *engine.SQL
	samples *storage.Samples
	dict    *storage.Dictionary
	models  *storage.Models
	checks  *storage.Checks
}

// makeStores opens the database and prepares all storages, returns nil if database is not configured
func makeStores(ctx context.Context, opts options) (*stores, error) {
	if opts.DB == "" {
		return nil, nil
	}
	db, err := engine.New(ctx, opts.DB, opts.GID)
	if err != nil {
		return nil, fmt.Errorf("can't make db %s: %w", opts.DB, err)
	}
	log.Printf("[INFO] storage enabled, %s database, gid %q", db.Type(), db.GID())

	res := &stores{db: db}
	if res.samples, err = storage.NewSamples(ctx, db); err != nil {
		return nil, errors.Join(fmt.Errorf("can't make samples store: %w", err), db.Close())
	}
	if res.dict, err = storage.NewDictionary(ctx, db); err != nil {
		return nil, errors.Join(fmt.Errorf("can't make dictionary store: %w", err), db.Close())
	}
	if res.models, err = storage.NewModels(ctx, db); err != nil {
		return nil, errors.Join(fmt.Errorf("can't make models store: %w", err), db.Close())
	}
	if res.checks, err = storage.NewChecks(ctx, db); err != nil {
		return nil, errors.Join(fmt.Errorf("can't make checks store: %w", err), db.Close())
	}
	return res, nil
}

// Close closes the database
func (s *stores) Close() error {
	return s.db.Close()
}

// modelBuilder trains the detector from the configured sources and persists the result.
// Rebuilds are serialized, they may be requested by the web api and the watcher at the same time.
type modelBuilder struct {
	opts     options
	detector *spamicity.Detector
	stores   *stores // nil without database
	lock     sync.Mutex
}

// init loads stop words and makes the initial model: trains it if there is anything to train from,
// otherwise loads a saved model from the file or database.
func (b *modelBuilder) init(ctx context.Context) error {
	if b.hasTrainDirs() || b.opts.Import {
		_, err := b.rebuild(ctx)
		return err
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	stopWords, err := b.readStopWords(ctx)
	if err != nil {
		return err
	}

	if b.opts.Model != "" {
		table, err := spamicity.LoadTableFile(b.opts.Model)
		if err != nil {
			return fmt.Errorf("can't load model: %w", err)
		}
		b.detector.SetStopWords(stopWords)
		b.detector.WithTable(table)
		log.Printf("[INFO] loaded model from %s, terms: %d", b.opts.Model, table.Len())
		return nil
	}

	if b.stores == nil {
		return errors.New("nothing to train from, set training directories, model file or database")
	}
	table, err := b.stores.models.Load(ctx)
	if err == nil {
		b.detector.SetStopWords(stopWords)
		b.detector.WithTable(table)
		log.Printf("[INFO] loaded model from database, terms: %d", table.Len())
		return nil
	}
	if !errors.Is(err, storage.ErrNoModel) {
		return fmt.Errorf("can't load model from database: %w", err)
	}
	log.Printf("[INFO] no model in database, train from stored samples")
	_, err = b.build(ctx, stopWords)
	return err
}

// rebuild rereads stop words, trains a new model and saves it. The detector gets the new stop words
// together with the new table, a failed rebuild leaves both unchanged.
func (b *modelBuilder) rebuild(ctx context.Context) (spamicity.LoadResult, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	stopWords, err := b.readStopWords(ctx)
	if err != nil {
		return spamicity.LoadResult{}, err
	}
	return b.build(ctx, stopWords)
}

// build trains the model from the configured source and saves it, caller holds the lock
func (b *modelBuilder) build(ctx context.Context, stopWords []string) (spamicity.LoadResult, error) {
	var spam, ham iter.Seq[string]
	switch {
	case b.opts.Import:
		if err := b.importCorpus(ctx); err != nil {
			return spamicity.LoadResult{}, err
		}
		fallthrough
	case !b.hasTrainDirs():
		if b.stores == nil {
			return spamicity.LoadResult{}, errors.New("no training directories or database to train from")
		}
		var err error
		if spam, ham, err = b.storedSamples(ctx, storage.SampleOriginAny); err != nil {
			return spamicity.LoadResult{}, err
		}
	default:
		spamDocs, hamDocs, err := b.readTrainDirs(ctx)
		if err != nil {
			return spamicity.LoadResult{}, err
		}
		spam, ham = corpus.Texts(spamDocs), corpus.Texts(hamDocs)
		if b.stores != nil {
			// samples added by users extend the directories
			userSpam, userHam, err := b.storedSamples(ctx, storage.SampleOriginUser)
			if err != nil {
				return spamicity.LoadResult{}, err
			}
			spam, ham = concat(spam, userSpam), concat(ham, userHam)
		}
	}

	lr, err := b.detector.Rebuild(ctx, stopWords, spam, ham)
	if err != nil {
		return spamicity.LoadResult{}, err
	}
	if err := b.save(ctx); err != nil {
		return spamicity.LoadResult{}, err
	}
	return lr, nil
}

// save writes the current model to the file and database, whichever configured
func (b *modelBuilder) save(ctx context.Context) error {
	table := b.detector.Table()
	errs := new(multierror.Error)
	if b.opts.Model != "" {
		if err := table.SaveFile(b.opts.Model); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("can't save model to %s: %w", b.opts.Model, err))
		} else {
			log.Printf("[INFO] model saved to %s", b.opts.Model)
		}
	}
	if b.stores != nil {
		if err := b.stores.models.Save(ctx, table); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("can't save model to database: %w", err))
		}
	}
	return errs.ErrorOrNil()
}

// readStopWords reads stop words from the file and database dictionary, a missing file is not an error.
// Returns nil, meaning the builtin english list, if neither source has words. An existing empty file
// is an explicit request for no stop words.
func (b *modelBuilder) readStopWords(ctx context.Context) ([]string, error) {
	readers := []io.Reader{}
	fileSet := false
	if b.opts.StopWords != "" {
		fh, err := os.Open(b.opts.StopWords)
		switch {
		case err == nil:
			defer fh.Close()
			readers = append(readers, fh)
			fileSet = true
		case errors.Is(err, os.ErrNotExist):
			log.Printf("[WARN] stop words file %s not found", b.opts.StopWords)
		default:
			return nil, fmt.Errorf("can't open stop words file: %w", err)
		}
	}
	if b.stores != nil {
		r, err := b.stores.dict.Reader(ctx)
		if err != nil {
			return nil, fmt.Errorf("can't read stop words from database: %w", err)
		}
		readers = append(readers, r)
	}

	words, err := spamicity.ParseStopWords(readers...)
	if err != nil {
		return nil, fmt.Errorf("can't load stop words: %w", err)
	}
	switch {
	case len(words) > 0:
		log.Printf("[INFO] loaded %d stop words", len(words))
		return words, nil
	case fileSet:
		log.Printf("[WARN] stop words file %s is empty, stop words disabled", b.opts.StopWords)
		return words, nil
	default:
		log.Printf("[DEBUG] no stop words configured, using built-in list")
		return nil, nil
	}
}

// importCorpus replaces preset samples in the database with the training directories,
// stop words file replaces the dictionary.
func (b *modelBuilder) importCorpus(ctx context.Context) error {
	if b.stores == nil {
		return errors.New("import requires database")
	}
	spamDocs, hamDocs, err := b.readTrainDirs(ctx)
	if err != nil {
		return err
	}
	if _, err := b.stores.samples.Import(ctx, storage.SampleTypeSpam, storage.SampleOriginPreset,
		corpus.Sources(b.opts.Train.Spam, spamDocs), true); err != nil {
		return fmt.Errorf("can't import spam samples: %w", err)
	}
	stats, err := b.stores.samples.Import(ctx, storage.SampleTypeHam, storage.SampleOriginPreset,
		corpus.Sources(b.opts.Train.Ham, hamDocs), true)
	if err != nil {
		return fmt.Errorf("can't import ham samples: %w", err)
	}
	log.Printf("[INFO] imported samples, %s", stats)

	if b.opts.StopWords == "" {
		return nil
	}
	fh, err := os.Open(b.opts.StopWords)
	if err != nil {
		log.Printf("[WARN] stop words not imported: %v", err)
		return nil
	}
	defer fh.Close()
	n, err := b.stores.dict.Import(ctx, fh, true)
	if err != nil {
		return fmt.Errorf("can't import stop words: %w", err)
	}
	log.Printf("[INFO] imported %d stop words", n)
	return nil
}

func (b *modelBuilder) readTrainDirs(ctx context.Context) (spam, ham []corpus.Document, err error) {
	if b.opts.Train.Spam == "" || b.opts.Train.Ham == "" {
		return nil, nil, errors.New("both training spam and ham directories are required")
	}
	if spam, err = corpus.Read(ctx, b.opts.Train.Spam, b.opts.Workers); err != nil {
		return nil, nil, fmt.Errorf("training %w", err)
	}
	if ham, err = corpus.Read(ctx, b.opts.Train.Ham, b.opts.Workers); err != nil {
		return nil, nil, fmt.Errorf("training %w", err)
	}
	log.Printf("[DEBUG] read training corpus, spam: %d, ham: %d", len(spam), len(ham))
	return spam, ham, nil
}

func (b *modelBuilder) storedSamples(ctx context.Context, origin storage.SampleOrigin) (spam, ham iter.Seq[string], err error) {
	spamTexts, err := b.stores.samples.Read(ctx, storage.SampleTypeSpam, origin)
	if err != nil {
		return nil, nil, fmt.Errorf("can't read spam samples: %w", err)
	}
	hamTexts, err := b.stores.samples.Read(ctx, storage.SampleTypeHam, origin)
	if err != nil {
		return nil, nil, fmt.Errorf("can't read ham samples: %w", err)
	}
	return slices.Values(spamTexts), slices.Values(hamTexts), nil
}

func (b *modelBuilder) hasTrainDirs() bool {
	return b.opts.Train.Spam != "" || b.opts.Train.Ham != ""
}

func (b *modelBuilder) trainDirs() []string {
	res := []string{}
	for _, d := range []string{b.opts.Train.Spam, b.opts.Train.Ham} {
		if d != "" {
			res = append(res, d)
		}
	}
	return res
}

// concat joins sequences
func concat(seqs ...iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, seq := range seqs {
			for v := range seq {
				if !yield(v) {
					return
				}
			}
		}
	}
}
