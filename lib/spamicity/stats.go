package spamicity

import (
	"fmt"
	"sort"
)

// Class is a document label
type Class string

// enum of supported classes
const (
	Spam Class = "spam"
	Ham  Class = "ham"
)

// String implements Stringer interface
func (c Class) String() string { return string(c) }

// Validate checks if the class is one of the known labels
func (c Class) Validate() error {
	switch c {
	case Spam, Ham:
		return nil
	}
	return fmt.Errorf("invalid class: %q", c)
}

// TermStats accumulates per-term occurrence counts for both classes and the number of
// distinct documents each term appeared in. Not thread-safe, parallel ingestion should use
// a TermStats per worker and Merge them afterwards.
type TermStats struct {
	spamCount    map[string]float64
	hamCount     map[string]float64
	docFrequency map[string]int
	docs         map[Class]int
}

// NewTermStats makes an empty statistics store
func NewTermStats() *TermStats {
	return &TermStats{
		spamCount:    map[string]float64{},
		hamCount:     map[string]float64{},
		docFrequency: map[string]int{},
		docs:         map[Class]int{},
	}
}

// RecordDocument adds all terms of a single document to the class counts.
// Every occurrence counts, but document frequency grows once per distinct term.
func (s *TermStats) RecordDocument(class Class, terms ...string) error {
	if err := class.Validate(); err != nil {
		return err
	}
	counts := s.hamCount
	if class == Spam {
		counts = s.spamCount
	}

	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		counts[term]++
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		s.docFrequency[term]++
	}
	s.docs[class]++
	return nil
}

// Merge adds all counts of other to s. Merging is commutative and associative,
// so the order of merged partial stores doesn't change the result.
func (s *TermStats) Merge(other *TermStats) {
	if other == nil {
		return
	}
	for term, n := range other.spamCount {
		s.spamCount[term] += n
	}
	for term, n := range other.hamCount {
		s.hamCount[term] += n
	}
	for term, n := range other.docFrequency {
		s.docFrequency[term] += n
	}
	for class, n := range other.docs {
		s.docs[class] += n
	}
}

// Counts returns raw counts for a term
func (s *TermStats) Counts(term string) (spam, ham float64, docFrequency int) {
	return s.spamCount[term], s.hamCount[term], s.docFrequency[term]
}

// Documents returns number of recorded documents of the class
func (s *TermStats) Documents(class Class) int {
	return s.docs[class]
}

// Totals returns the sum of all occurrences per class
func (s *TermStats) Totals() (spamTotal, hamTotal float64) {
	for _, n := range s.spamCount {
		spamTotal += n
	}
	for _, n := range s.hamCount {
		hamTotal += n
	}
	return spamTotal, hamTotal
}

// Vocabulary returns all terms seen in either class, sorted
func (s *TermStats) Vocabulary() []string {
	res := make([]string, 0, len(s.docFrequency))
	for term := range s.spamCount {
		res = append(res, term)
	}
	for term := range s.hamCount {
		if _, ok := s.spamCount[term]; !ok {
			res = append(res, term)
		}
	}
	sort.Strings(res)
	return res
}

// Reset drops all accumulated counts
func (s *TermStats) Reset() {
	s.spamCount = map[string]float64{}
	s.hamCount = map[string]float64{}
	s.docFrequency = map[string]int{}
	s.docs = map[Class]int{}
}
