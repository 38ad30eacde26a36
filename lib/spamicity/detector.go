package spamicity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/umputun/spamicity/lib/spamcheck"
)

// ErrNotTrained returned by classification before any table was trained or loaded
var ErrNotTrained = errors.New("spamicity table is not trained")

// checkName is the name of the check reported in spamcheck.Response
const checkName = "spamicity"

// Detector is a spam detector based on term spamicity, thread-safe.
// The table is replaced as a whole on every training, classification reads an immutable snapshot.
type Detector struct {
	Config
	tokenizer *Tokenizer
	table     *Table

	hamHistory  *spamcheck.LastRequests
	spamHistory *spamcheck.LastRequests

	lock sync.RWMutex
}

// Config is a set of parameters for Detector. Zero values are replaced by defaults.
type Config struct {
	Threshold       float64 // posterior spam probability above this is spam, default 0.7
	TermsConsidered int     // number of max/min spamicity pairs used, default 20
	MinDocFrequency int     // terms seen in this many documents or fewer are pruned, default 5
	Workers         int     // number of parallel training workers, default 1
	HistorySize     int     // number of recent requests kept per class, default 100
}

// LoadResult is a result of loading samples or stop words.
type LoadResult struct {
	SpamSamples int // number of spam documents
	HamSamples  int // number of ham documents
	StopWords   int // number of stop words
	Terms       int // number of terms in the trained table
}

// NewDetector makes a new Detector with the given config.
func NewDetector(p Config) *Detector {
	if p.Threshold == 0 {
		p.Threshold = DefaultThreshold
	}
	if p.TermsConsidered == 0 {
		p.TermsConsidered = DefaultTermsConsidered
	}
	if p.MinDocFrequency == 0 {
		p.MinDocFrequency = OccurThresholdOfDiscardTerm
	}
	if p.Workers < 1 {
		p.Workers = 1
	}
	if p.HistorySize == 0 {
		p.HistorySize = 100
	}
	return &Detector{
		Config:      p,
		tokenizer:   NewTokenizer(),
		hamHistory:  spamcheck.NewLastRequests(p.HistorySize),
		spamHistory: spamcheck.NewLastRequests(p.HistorySize),
	}
}

// SetStopWords replaces the stop words used by normalization. A nil list restores the builtin english
// list, an empty one disables stop words. Affects subsequent training and classification only,
// use Rebuild to change stop words and the table at once.
func (d *Detector) SetStopWords(words []string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.tokenizer = NewTokenizer(words...)
}

// LoadSamples trains a new table, each reader is a single document.
// The current table is replaced only if training succeeds.
func (d *Detector) LoadSamples(ctx context.Context, spamReaders, hamReaders []io.Reader) (LoadResult, error) {
	tk := d.currentTokenizer()
	docs := make([]Document, 0, len(spamReaders)+len(hamReaders))
	var errs *multierror.Error
	add := func(class Class, readers []io.Reader) {
		for i, r := range readers {
			terms, err := NormalizeDocument(tk, r)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s document %d: %w", class, i, err))
				continue
			}
			docs = append(docs, Document{Class: class, Terms: terms})
		}
	}
	add(Spam, spamReaders)
	add(Ham, hamReaders)
	if err := errs.ErrorOrNil(); err != nil {
		return LoadResult{}, fmt.Errorf("can't read samples: %w", err)
	}
	return d.train(ctx, tk, docs)
}

// Train trains a new table from in-memory documents with the current stop words,
// each element of a sequence is a whole document
func (d *Detector) Train(ctx context.Context, spam, ham iter.Seq[string]) (LoadResult, error) {
	tk := d.currentTokenizer()
	docs, err := normalizeAll(tk, spam, ham)
	if err != nil {
		return LoadResult{}, err
	}
	return d.train(ctx, tk, docs)
}

// Rebuild trains a new table with the given stop words (nil for the builtin list). Stop words and the
// table are installed together and only if training succeeds, the detector keeps the previous pair otherwise.
func (d *Detector) Rebuild(ctx context.Context, stopWords []string, spam, ham iter.Seq[string]) (LoadResult, error) {
	tk := NewTokenizer(stopWords...)
	docs, err := normalizeAll(tk, spam, ham)
	if err != nil {
		return LoadResult{}, err
	}
	lr, err := d.train(ctx, tk, docs)
	if err != nil {
		return LoadResult{}, err
	}
	lr.StopWords = len(stopWords)
	return lr, nil
}

func normalizeAll(tk *Tokenizer, spam, ham iter.Seq[string]) ([]Document, error) {
	docs := []Document{}
	for class, seq := range map[Class]iter.Seq[string]{Spam: spam, Ham: ham} {
		if seq == nil {
			continue
		}
		for text := range seq {
			terms, err := NormalizeDocument(tk, strings.NewReader(text))
			if err != nil {
				return nil, err
			}
			docs = append(docs, Document{Class: class, Terms: terms})
		}
	}
	return docs, nil
}

// train builds the table and installs it together with the tokenizer used for the documents
func (d *Detector) train(ctx context.Context, tk *Tokenizer, docs []Document) (LoadResult, error) {
	st := time.Now()
	table, err := TrainParallel(ctx, docs, d.Workers, d.MinDocFrequency)
	if err != nil {
		return LoadResult{}, fmt.Errorf("can't train spamicity table: %w", err)
	}
	d.lock.Lock()
	d.table, d.tokenizer = table, tk
	d.lock.Unlock()

	info := table.Info()
	log.Printf("[INFO] trained spamicity table, spam docs: %d, ham docs: %d, terms: %d, pruned: %d, in %v",
		info.SpamDocs, info.HamDocs, info.Terms, info.Pruned, time.Since(st).Round(time.Millisecond))
	return LoadResult{SpamSamples: info.SpamDocs, HamSamples: info.HamDocs, Terms: info.Terms}, nil
}

// WithTable sets a pre-built table, i.e. loaded from a file or database
func (d *Detector) WithTable(t *Table) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.table = t
}

// Table returns the current table, nil if not trained
func (d *Detector) Table() *Table {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.table
}

// Trained reports if a table is set
func (d *Detector) Trained() bool {
	return d.Table() != nil
}

// Classify normalizes the text and scores it against the current table
func (d *Detector) Classify(text string) (Result, error) {
	d.lock.RLock()
	table, tk := d.table, d.tokenizer
	d.lock.RUnlock()
	if table == nil {
		return Result{}, ErrNotTrained
	}

	terms, err := NormalizeDocument(tk, strings.NewReader(text))
	if err != nil {
		return Result{}, err
	}
	return d.scorer(table).Score(terms), nil
}

// Probability returns posterior spam probability of the text
func (d *Detector) Probability(text string) (float64, error) {
	res, err := d.Classify(text)
	if err != nil {
		return 0, err
	}
	return res.Probability, nil
}

// Check classifies the request and records it in the history of its class
func (d *Detector) Check(req spamcheck.Request) spamcheck.Response {
	res, err := d.Classify(req.Msg)
	if err != nil {
		return spamcheck.Response{Name: checkName, Details: err.Error(), Error: err}
	}

	if !req.CheckOnly {
		if req.Timestamp.IsZero() {
			req.Timestamp = time.Now()
		}
		if res.Spam() {
			d.spamHistory.Push(req)
		} else {
			d.hamHistory.Push(req)
		}
	}

	return spamcheck.Response{
		Name:        checkName,
		Spam:        res.Spam(),
		Probability: res.Probability,
		Details:     fmt.Sprintf("probability of spam: %.2f%%, known terms: %d", res.Probability*100, res.Known),
	}
}

// History returns up to n recent checked requests of the class
func (d *Detector) History(class Class, n int) []spamcheck.Request {
	if class == Spam {
		return d.spamHistory.Last(n)
	}
	return d.hamHistory.Last(n)
}

func (d *Detector) scorer(t *Table) Scorer {
	return Scorer{Table: t, TermsConsidered: d.TermsConsidered, Threshold: d.Threshold}
}

func (d *Detector) currentTokenizer() *Tokenizer {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.tokenizer
}
