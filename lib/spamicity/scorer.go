package spamicity

import (
	"math"
	"sort"
)

// defaults for the scorer
const (
	DefaultTermsConsidered = 20  // extremes taken from each side of the spamicity range
	DefaultThreshold       = 0.7 // posterior above this is spam
)

// clamping keeps ln(p) and ln(1-p) finite
const (
	maxSpamicity = 0.9999
	minSpamicity = 0.0001
)

// Scorer combines term spamicities of a document into a posterior spam probability
type Scorer struct {
	Table           *Table
	TermsConsidered int     // number of max/min pairs used, DefaultTermsConsidered if 0
	Threshold       float64 // DefaultThreshold if 0
}

// Result of a single classification
type Result struct {
	Class       Class       `json:"class"`
	Probability float64     `json:"probability"`
	Known       int         `json:"known"`    // number of distinct terms found in the table
	Evidence    []TermValue `json:"evidence"` // spamicities used for the decision, in selection order
}

// Spam reports if the result is spam
func (r Result) Spam() bool { return r.Class == Spam }

// Score classifies a document given its terms. Duplicates are ignored, unknown terms contribute nothing.
func (s Scorer) Score(terms []string) Result {
	known := s.known(terms)
	evidence := s.extremes(known)

	logSum := 0.0
	for _, ev := range evidence {
		p := clamp(ev.Spamicity)
		logSum += math.Log(1-p) - math.Log(p)
	}
	prob := 1 / (1 + math.Exp(logSum))
	return Result{Class: s.decide(prob), Probability: prob, Known: len(known), Evidence: evidence}
}

// Probability returns posterior spam probability of the document
func (s Scorer) Probability(terms []string) float64 {
	return s.Score(terms).Probability
}

// IsSpam applies the decision threshold. Equality with the threshold is ham.
func (s Scorer) IsSpam(prob float64) bool {
	return s.decide(prob) == Spam
}

func (s Scorer) decide(prob float64) Class {
	threshold := s.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if prob > threshold {
		return Spam
	}
	return Ham
}

// known returns spamicities of distinct known terms sorted ascending
func (s Scorer) known(terms []string) []TermValue {
	seen := make(map[string]struct{}, len(terms))
	res := make([]TermValue, 0, len(terms))
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		if p, ok := s.Table.Lookup(term); ok {
			res = append(res, TermValue{Term: term, Spamicity: p})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Spamicity == res[j].Spamicity {
			return res[i].Term < res[j].Term
		}
		return res[i].Spamicity < res[j].Spamicity
	})
	return res
}

// extremes picks values from the sorted slice in lock-step, the largest remaining one then
// the smallest remaining one, for TermsConsidered rounds. Two cursors over the same slice
// guarantee no value is used twice; with short input every value is used exactly once.
func (s Scorer) extremes(sorted []TermValue) []TermValue {
	rounds := s.TermsConsidered
	if rounds == 0 {
		rounds = DefaultTermsConsidered
	}
	res := make([]TermValue, 0, min(len(sorted), 2*rounds))
	lo, hi := 0, len(sorted)-1
	for range rounds {
		if lo > hi {
			break
		}
		res = append(res, sorted[hi])
		hi--
		if lo > hi {
			break
		}
		res = append(res, sorted[lo])
		lo++
	}
	return res
}

func clamp(p float64) float64 {
	switch {
	case p >= 1:
		return maxSpamicity
	case p <= 0:
		return minSpamicity
	}
	return p
}
