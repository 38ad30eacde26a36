package corpus

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/spamicity/lib/spamicity"
)

// keywordClassifier marks documents containing "spam" as spam
type keywordClassifier struct{ err error }

func (k keywordClassifier) Classify(text string) (spamicity.Result, error) {
	if k.err != nil {
		return spamicity.Result{}, k.err
	}
	if strings.Contains(text, "spam") {
		return spamicity.Result{Class: spamicity.Spam, Probability: 0.99}, nil
	}
	return spamicity.Result{Class: spamicity.Ham, Probability: 0.1}, nil
}

func TestEvaluate(t *testing.T) {
	dir := t.TempDir()
	spamDir, hamDir := filepath.Join(dir, "spam"), filepath.Join(dir, "ham")
	writeFiles(t, spamDir, map[string]string{"1.txt": "spam offer", "2.txt": "spam again", "3.txt": "innocent looking"})
	writeFiles(t, hamDir, map[string]string{"1.txt": "hello", "2.txt": "no spam here", "3.txt": "meeting", "4.txt": "lunch"})

	report, err := Evaluate(context.Background(), keywordClassifier{}, spamDir, hamDir, 2)
	require.NoError(t, err)
	assert.Equal(t, Report{Spam: 3, Ham: 4, SpamAsHam: 1, HamAsSpam: 1}, report)
	assert.InDelta(t, 5.0/7.0, report.Accuracy(), 1e-9)
	assert.InDelta(t, 2.0/3.0, report.Precision(), 1e-9)
	assert.InDelta(t, 2.0/3.0, report.Recall(), 1e-9)

	t.Run("missing dirs", func(t *testing.T) {
		_, err := Evaluate(context.Background(), keywordClassifier{}, filepath.Join(dir, "nope"), hamDir, 1)
		require.ErrorIs(t, err, ErrDirNotFound)
		assert.Contains(t, err.Error(), "spam testing")

		_, err = Evaluate(context.Background(), keywordClassifier{}, spamDir, filepath.Join(dir, "nope"), 1)
		require.ErrorIs(t, err, ErrDirNotFound)
		assert.Contains(t, err.Error(), "ham testing")
	})

	t.Run("classifier error", func(t *testing.T) {
		_, err := Evaluate(context.Background(), keywordClassifier{err: errors.New("boom")}, spamDir, hamDir, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestReport(t *testing.T) {
	empty := Report{}
	assert.Zero(t, empty.Accuracy())
	assert.Zero(t, empty.Precision())
	assert.Zero(t, empty.Recall())

	r := Report{Spam: 10, Ham: 10, SpamAsHam: 2, HamAsSpam: 0}
	assert.InDelta(t, 0.9, r.Accuracy(), 1e-9)
	assert.InDelta(t, 1.0, r.Precision(), 1e-9)
	assert.InDelta(t, 0.8, r.Recall(), 1e-9)

	buf := bytes.Buffer{}
	r.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "testing results")
	assert.Contains(t, out, "spam: 10\n")
	assert.Contains(t, out, "ham: 10\n")
	assert.Contains(t, out, "spam classified as ham: 2")
	assert.Contains(t, out, "ham classified as spam: 0")
	assert.Contains(t, out, "accuracy: 90.00%, precision: 100.00%, recall: 80.00%")
}
