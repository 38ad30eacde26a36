// Package spamcheck defines the request and response types of a spam check, shared by the
// classifier library and its clients.
package spamcheck

import (
	"fmt"
	"strings"
	"time"
)

// Request is a request to check a document for spam.
type Request struct {
	Msg       string    `json:"msg"`        // text to check
	Source    string    `json:"source"`     // origin of the text, i.e. file name or client id
	Timestamp time.Time `json:"timestamp"`  // set by the checker if empty
	CheckOnly bool      `json:"check_only"` // if true, the request isn't recorded in history and check log
}

func (r *Request) String() string {
	return fmt.Sprintf("msg:%q, source:%q", r.Msg, r.Source)
}

// Response is a result of spam check.
type Response struct {
	Name        string  `json:"name"`        // name of the check
	Spam        bool    `json:"spam"`        // true if spam
	Probability float64 `json:"probability"` // posterior spam probability, 0.0 - 1.0
	Details     string  `json:"details"`     // details of the check
	Error       error   `json:"-"`           // error message, if any. Do not serialize it
}

func (r *Response) String() string {
	spamOrHam := "ham"
	if r.Spam {
		spamOrHam = "spam"
	}
	return fmt.Sprintf("%s: %s, %.4f, %s", r.Name, spamOrHam, r.Probability, r.Details)
}

// ChecksToString converts a slice of checks to a string
func ChecksToString(checks []Response) string {
	elems := make([]string, 0, len(checks))
	for _, r := range checks {
		elems = append(elems, "{"+r.String()+"}")
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}
