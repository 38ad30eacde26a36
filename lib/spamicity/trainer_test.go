package spamicity

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingDocs() []Document {
	docs := []Document{}
	for i := range 12 {
		docs = append(docs, Document{Class: Spam, Terms: []string{"cheap", "pill", "now", "cheap"}})
		docs = append(docs, Document{Class: Ham, Terms: []string{"report", "team", "now"}})
		if i%3 == 0 {
			docs = append(docs, Document{Class: Ham, Terms: []string{"cheap", "lunch"}})
		}
	}
	return docs
}

func TestTrainer_Phases(t *testing.T) {
	tr := NewTrainer(5)
	require.NoError(t, tr.Record(Spam, "a", "b"))
	table, err := tr.Compute()
	require.NoError(t, err)
	assert.Zero(t, table.Len(), "everything pruned")

	assert.ErrorIs(t, tr.Record(Ham, "c"), ErrTrainerFinished)
	assert.ErrorIs(t, tr.Merge(NewTermStats()), ErrTrainerFinished)
	_, err = tr.Compute()
	assert.ErrorIs(t, err, ErrTrainerFinished)

	tr.Reset()
	require.NoError(t, tr.Record(Ham, "c"))
	table, err = tr.Compute()
	require.NoError(t, err)
	assert.Equal(t, 1, table.Info().HamDocs)
	assert.Zero(t, table.Info().SpamDocs, "reset drops previous documents")
}

func TestTrain(t *testing.T) {
	table, err := Train(slices.Values(trainingDocs()), 5)
	require.NoError(t, err)

	for _, term := range []string{"cheap", "pill", "now", "report", "team"} {
		_, ok := table.Lookup(term)
		assert.True(t, ok, term)
	}
	_, ok := table.Lookup("lunch")
	assert.False(t, ok, "lunch is in 4 documents only")

	p, _ := table.Lookup("pill")
	assert.Equal(t, 1.0, p)
	p, _ = table.Lookup("team")
	assert.Equal(t, 0.0, p)

	_, err = Train(slices.Values([]Document{{Class: "bad"}}), 5)
	assert.Error(t, err)
}

func TestTrainParallel(t *testing.T) {
	docs := trainingDocs()
	expected, err := Train(slices.Values(docs), 5)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 3, 8, 100} {
		table, err := TrainParallel(context.Background(), docs, workers, 5)
		require.NoError(t, err)
		assert.Equal(t, expected.Values(), table.Values(), "workers=%d", workers)
		assert.Equal(t, expected.Info().SpamDocs, table.Info().SpamDocs)
	}
}

func TestTrainParallel_Errors(t *testing.T) {
	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := TrainParallel(ctx, trainingDocs(), 2, 5)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid class", func(t *testing.T) {
		docs := append(trainingDocs(), Document{Class: "bad", Terms: []string{"x"}})
		_, err := TrainParallel(context.Background(), docs, 4, 5)
		assert.ErrorContains(t, err, "invalid class")
	})
}
