package spamicity

import (
	"log"
	"time"
)

// OccurThresholdOfDiscardTerm is the default minimal evidence, terms seen in this many
// documents or fewer are not trusted and dropped from the table
const OccurThresholdOfDiscardTerm = 5

// Compute converts accumulated statistics to a spamicity table.
//
// Class totals are summed over the whole vocabulary before pruning. A term survives if its
// document frequency is strictly greater than minDocFrequency, then
// spamicity = spamFreq / (spamFreq + hamFreq) with freq = count / classTotal.
// An empty class total yields zero frequency for every term of that class. A term with zero
// frequency in both classes has no defined spamicity and is left out of the table, i.e. treated as unknown.
func Compute(stats *TermStats, minDocFrequency int) *Table {
	spamTotal, hamTotal := stats.Totals()
	vocab := stats.Vocabulary()

	info := TableInfo{
		Vocabulary: len(vocab),
		SpamTotal:  spamTotal,
		HamTotal:   hamTotal,
		SpamDocs:   stats.Documents(Spam),
		HamDocs:    stats.Documents(Ham),
		MinDocs:    minDocFrequency,
		CreatedAt:  time.Now(),
	}

	values := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		spam, ham, df := stats.Counts(term)
		if df <= minDocFrequency {
			info.Pruned++
			continue
		}
		spamFreq, hamFreq := ratio(spam, spamTotal), ratio(ham, hamTotal)
		if spamFreq+hamFreq == 0 {
			info.Degenerate++
			continue
		}
		values[term] = spamFreq / (spamFreq + hamFreq)
	}
	info.Terms = len(values)

	if info.Degenerate > 0 {
		log.Printf("[WARN] %d terms with zero frequency in both classes excluded", info.Degenerate)
	}
	log.Printf("[DEBUG] spamicity table: %d terms, %d pruned, vocabulary %d, spam total %.0f, ham total %.0f",
		info.Terms, info.Pruned, info.Vocabulary, spamTotal, hamTotal)
	return &Table{values: values, info: info}
}

func ratio(count, total float64) float64 {
	if total == 0 {
		return 0
	}
	return count / total
}
