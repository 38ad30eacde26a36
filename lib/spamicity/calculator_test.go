package spamicity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// putCounts injects raw statistics for a term, bypassing document recording
func putCounts(st *TermStats, term string, spam, ham float64, df int) {
	st.spamCount[term] = spam
	st.hamCount[term] = ham
	st.docFrequency[term] = df
}

func TestCompute(t *testing.T) {
	st := NewTermStats()
	putCounts(st, "viagra", 30, 10, 10)
	putCounts(st, "meeting", 10, 30, 10)
	putCounts(st, "rare", 60, 0, 5) // df == threshold, pruned but counted in totals

	table := Compute(st, OccurThresholdOfDiscardTerm)
	require.Equal(t, 2, table.Len())

	// spamTotal=100, hamTotal=40, viagra: 0.3/(0.3+0.25)
	p, ok := table.Lookup("viagra")
	require.True(t, ok)
	assert.InDelta(t, 0.3/(0.3+0.25), p, 1e-12)

	p, ok = table.Lookup("meeting")
	require.True(t, ok)
	assert.InDelta(t, 0.1/(0.1+0.75), p, 1e-12)

	_, ok = table.Lookup("rare")
	assert.False(t, ok)

	info := table.Info()
	assert.Equal(t, 2, info.Terms)
	assert.Equal(t, 3, info.Vocabulary)
	assert.Equal(t, 1, info.Pruned)
	assert.Equal(t, 100.0, info.SpamTotal)
	assert.Equal(t, 40.0, info.HamTotal)
	assert.Equal(t, OccurThresholdOfDiscardTerm, info.MinDocs)
	assert.False(t, info.CreatedAt.IsZero())
}

func TestCompute_PruningBoundary(t *testing.T) {
	tests := []struct {
		df   int
		kept bool
	}{
		{df: 1, kept: false},
		{df: 5, kept: false},
		{df: 6, kept: true},
		{df: 100, kept: true},
	}
	for _, tt := range tests {
		st := NewTermStats()
		putCounts(st, "term", 3, 2, tt.df)
		_, ok := Compute(st, 5).Lookup("term")
		assert.Equal(t, tt.kept, ok, "df=%d", tt.df)
	}
}

func TestCompute_OneSidedTerms(t *testing.T) {
	st := NewTermStats()
	putCounts(st, "spammy", 10, 0, 8)
	putCounts(st, "hammy", 0, 10, 8)
	table := Compute(st, 5)

	p, ok := table.Lookup("spammy")
	require.True(t, ok)
	assert.Equal(t, 1.0, p)

	p, ok = table.Lookup("hammy")
	require.True(t, ok)
	assert.Equal(t, 0.0, p)
}

func TestCompute_Degenerate(t *testing.T) {
	t.Run("no ham at all", func(t *testing.T) {
		st := NewTermStats()
		putCounts(st, "only", 10, 0, 8)
		table := Compute(st, 5)
		p, ok := table.Lookup("only")
		require.True(t, ok)
		assert.Equal(t, 1.0, p, "empty ham total yields zero ham frequency, not NaN")
	})

	t.Run("zero counts in both classes", func(t *testing.T) {
		st := NewTermStats()
		putCounts(st, "ghost", 0, 0, 8)
		putCounts(st, "real", 4, 4, 8)
		table := Compute(st, 5)
		_, ok := table.Lookup("ghost")
		assert.False(t, ok, "degenerate term is treated as unknown")
		assert.Equal(t, 1, table.Info().Degenerate)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("empty stats", func(t *testing.T) {
		table := Compute(NewTermStats(), 5)
		assert.Zero(t, table.Len())
	})
}

func TestCompute_RangeInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data
	st := NewTermStats()
	words := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for range 200 {
		class := Spam
		if rnd.Intn(2) == 0 {
			class = Ham
		}
		terms := make([]string, rnd.Intn(10))
		for i := range terms {
			terms[i] = words[rnd.Intn(len(words))]
		}
		require.NoError(t, st.RecordDocument(class, terms...))
	}

	table := Compute(st, 5)
	assert.NotZero(t, table.Len())
	for term, p := range table.Values() {
		assert.True(t, p >= 0 && p <= 1, "term %s: %v", term, p)
	}
}

func TestCompute_OrderIndependence(t *testing.T) {
	docs := []Document{}
	for i := range 10 {
		docs = append(docs, Document{Class: Spam, Terms: []string{"win", "prize", "now"}})
		docs = append(docs, Document{Class: Ham, Terms: []string{"lunch", "now", "team"}})
		if i%2 == 0 {
			docs = append(docs, Document{Class: Ham, Terms: []string{"win", "team", "team"}})
		}
	}

	record := func(docs []Document) *Table {
		st := NewTermStats()
		for _, d := range docs {
			require.NoError(t, st.RecordDocument(d.Class, d.Terms...))
		}
		return Compute(st, 5)
	}

	reversed := make([]Document, len(docs))
	for i, d := range docs {
		reversed[len(docs)-1-i] = d
	}
	shuffled := append([]Document(nil), docs...)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) { //nolint:gosec // test
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	expected := record(docs).Values()
	assert.Equal(t, expected, record(reversed).Values())
	assert.Equal(t, expected, record(shuffled).Values())
}

func TestCompute_Monotonicity(t *testing.T) {
	prev := -1.0
	for spam := 0.0; spam <= 50; spam += 5 {
		st := NewTermStats()
		putCounts(st, "term", spam, 10, 8)
		putCounts(st, "other", 20, 20, 8)
		p, ok := Compute(st, 5).Lookup("term")
		require.True(t, ok)
		assert.GreaterOrEqual(t, p, prev, "spam count %v", spam)
		prev = p
	}
}
