package spamicity

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Table is an immutable mapping from term to P(spam|term). It is the only artifact
// needed for classification and safe for concurrent use.
type Table struct {
	values map[string]float64
	info   TableInfo
}

// TableInfo describes how the table was built
type TableInfo struct {
	Terms      int       `json:"terms" msgpack:"terms"`           // number of terms in the table
	Vocabulary int       `json:"vocabulary" msgpack:"vocabulary"` // number of distinct terms before pruning
	Pruned     int       `json:"pruned" msgpack:"pruned"`         // terms dropped for low document frequency
	Degenerate int       `json:"degenerate" msgpack:"degenerate"` // terms with zero frequency in both classes
	SpamTotal  float64   `json:"spam_total" msgpack:"spam_total"`
	HamTotal   float64   `json:"ham_total" msgpack:"ham_total"`
	SpamDocs   int       `json:"spam_docs" msgpack:"spam_docs"`
	HamDocs    int       `json:"ham_docs" msgpack:"ham_docs"`
	MinDocs    int       `json:"min_docs" msgpack:"min_docs"` // pruning threshold used, terms with df <= MinDocs dropped
	CreatedAt  time.Time `json:"created_at" msgpack:"created_at"`
}

// TermValue is a term with its spamicity
type TermValue struct {
	Term      string  `json:"term"`
	Spamicity float64 `json:"spamicity"`
}

// NewTable makes a table from the term mapping, checking every value is a probability.
// The map is copied, so the caller is free to modify it afterwards.
func NewTable(values map[string]float64, info TableInfo) (*Table, error) {
	res := &Table{values: make(map[string]float64, len(values)), info: info}
	for term, p := range values {
		if term == "" {
			return nil, fmt.Errorf("empty term in spamicity table")
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("spamicity of %q out of range: %v", term, p)
		}
		res.values[term] = p
	}
	res.info.Terms = len(res.values)
	return res, nil
}

// Lookup returns spamicity of the term and false if the term is unknown
func (t *Table) Lookup(term string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	p, ok := t.values[term]
	return p, ok
}

// Len returns number of terms
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.values)
}

// Info returns build information
func (t *Table) Info() TableInfo {
	if t == nil {
		return TableInfo{}
	}
	return t.info
}

// Values returns a copy of the term mapping
func (t *Table) Values() map[string]float64 {
	res := make(map[string]float64, t.Len())
	if t == nil {
		return res
	}
	for term, p := range t.values {
		res[term] = p
	}
	return res
}

// Top returns up to n most spam-indicative and n most ham-indicative terms.
// Ties are broken by term to keep the result stable.
func (t *Table) Top(n int) (spam, ham []TermValue) {
	all := make([]TermValue, 0, t.Len())
	for term, p := range t.Values() {
		all = append(all, TermValue{Term: term, Spamicity: p})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Spamicity == all[j].Spamicity {
			return all[i].Term < all[j].Term
		}
		return all[i].Spamicity > all[j].Spamicity
	})
	if n > len(all) {
		n = len(all)
	}
	spam = append(spam, all[:n]...)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		ham = append(ham, all[i])
	}
	return spam, ham
}
