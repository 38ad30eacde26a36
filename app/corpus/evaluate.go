package corpus

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"

	"github.com/umputun/spamicity/lib/spamicity"
)

// Classifier is the part of spamicity.Detector used for evaluation
type Classifier interface {
	Classify(text string) (spamicity.Result, error)
}

// Report is the result of classifying labeled test directories
type Report struct {
	Spam      int `json:"spam"`        // spam documents tested
	Ham       int `json:"ham"`         // ham documents tested
	SpamAsHam int `json:"spam_as_ham"` // spam classified as ham
	HamAsSpam int `json:"ham_as_spam"` // ham classified as spam
}

// Evaluate classifies every document of the spam and ham directories and counts misclassifications
func Evaluate(ctx context.Context, c Classifier, spamDir, hamDir string, workers int) (Report, error) {
	report := Report{}
	count := func(dir string, expected spamicity.Class, total, wrong *int) error {
		docs, err := Read(ctx, dir, workers)
		if err != nil {
			return err
		}
		for _, d := range docs {
			res, err := c.Classify(d.Text)
			if err != nil {
				return fmt.Errorf("can't classify %s: %w", d.Path, err)
			}
			*total++
			if res.Class != expected {
				*wrong++
				log.Printf("[DEBUG] misclassified %s as %s, probability %.4f", d.Path, res.Class, res.Probability)
			}
		}
		return nil
	}

	if err := count(spamDir, spamicity.Spam, &report.Spam, &report.SpamAsHam); err != nil {
		return Report{}, fmt.Errorf("spam testing: %w", err)
	}
	if err := count(hamDir, spamicity.Ham, &report.Ham, &report.HamAsSpam); err != nil {
		return Report{}, fmt.Errorf("ham testing: %w", err)
	}
	return report, nil
}

// Accuracy is the share of correctly classified documents
func (r Report) Accuracy() float64 {
	total := r.Spam + r.Ham
	if total == 0 {
		return 0
	}
	return float64(total-r.SpamAsHam-r.HamAsSpam) / float64(total)
}

// Precision is the share of real spam among documents classified as spam
func (r Report) Precision() float64 {
	truePos := r.Spam - r.SpamAsHam
	if truePos+r.HamAsSpam == 0 {
		return 0
	}
	return float64(truePos) / float64(truePos+r.HamAsSpam)
}

// Recall is the share of spam documents detected
func (r Report) Recall() float64 {
	if r.Spam == 0 {
		return 0
	}
	return float64(r.Spam-r.SpamAsHam) / float64(r.Spam)
}

// Print writes the report in human-readable form
func (r Report) Print(w io.Writer) {
	bold := color.New(color.Bold)
	bad := color.New(color.FgRed)
	good := color.New(color.FgGreen)
	pick := func(n int) *color.Color {
		if n > 0 {
			return bad
		}
		return good
	}

	_, _ = bold.Fprintln(w, "testing results")
	_, _ = fmt.Fprintf(w, "spam: %d\n", r.Spam)
	_, _ = fmt.Fprintf(w, "ham: %d\n", r.Ham)
	_, _ = pick(r.SpamAsHam).Fprintf(w, "spam classified as ham: %d\n", r.SpamAsHam)
	_, _ = pick(r.HamAsSpam).Fprintf(w, "ham classified as spam: %d\n", r.HamAsSpam)
	_, _ = fmt.Fprintf(w, "accuracy: %.2f%%, precision: %.2f%%, recall: %.2f%%\n",
		r.Accuracy()*100, r.Precision()*100, r.Recall()*100)
}
