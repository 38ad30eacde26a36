package spamicity

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer converts raw text to terms
type Normalizer interface {
	Normalize(line string) []string
}

// Tokenizer is the default Normalizer. It keeps alphabetic words only, drops stop words
// and reduces words to their english (porter2) stem. Safe for concurrent use once stop words are set.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// NewTokenizer makes a tokenizer with the given stop words. A nil list keeps the builtin
// english stop list, an empty non-nil list disables stop words filtering.
func NewTokenizer(stopWords ...string) *Tokenizer {
	res := &Tokenizer{}
	if stopWords != nil {
		res.stopWords = make(map[string]struct{}, len(stopWords))
		for _, w := range stopWords {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				res.stopWords[w] = struct{}{}
			}
		}
	}
	return res
}

// Normalize splits the line into words and returns their stems in order of appearance
func (t *Tokenizer) Normalize(line string) []string {
	line = foldText(gomoji.RemoveEmojis(line))
	words := strings.FieldsFunc(line, func(r rune) bool { return !unicode.IsLetter(r) })
	res := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if t.isStopWord(w) {
			continue
		}
		if stem := english.Stem(w, false); stem != "" {
			res = append(res, stem)
		}
	}
	return res
}

// NormalizeDocument reads the whole document line by line and returns all its terms.
// Lines have no length limit.
func NormalizeDocument(n Normalizer, r io.Reader) ([]string, error) {
	res := []string{}
	err := readLines(r, func(line string) {
		res = append(res, n.Normalize(line)...)
	})
	if err != nil {
		return nil, fmt.Errorf("can't read document: %w", err)
	}
	return res, nil
}

// ParseStopWords reads stop words, each line may hold several comma-separated words.
// Words are lowercased, duplicates dropped. The result is never nil.
func ParseStopWords(readers ...io.Reader) ([]string, error) {
	res := []string{}
	seen := map[string]struct{}{}
	for _, r := range readers {
		err := readLines(r, func(line string) {
			for _, w := range strings.Split(line, ",") {
				w = strings.ToLower(strings.TrimSpace(w))
				if _, dup := seen[w]; w == "" || dup {
					continue
				}
				seen[w] = struct{}{}
				res = append(res, w)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("can't read stop words: %w", err)
		}
	}
	return res, nil
}

// readLines calls fn for every line of r without the line terminator, the last line may have no "\n"
func readLines(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (t *Tokenizer) isStopWord(w string) bool {
	if t.stopWords == nil {
		return english.IsStopWord(w)
	}
	_, ok := t.stopWords[w]
	return ok
}

// foldText strips diacritics, i.e. "café" becomes "cafe"
func foldText(s string) string {
	tr := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(tr, s)
	if err != nil {
		return s
	}
	return res
}
