// Package spamicity provides a spam/ham classifier based on per-term spamicity. The primary type in
// this package is the Detector, which is used to identify spam in given texts. It is initialized with
// parameters defined in the Config struct.
//
// The Detector is designed to be thread-safe and supports concurrent usage.
//
// Before using a Detector, it has to be trained with one of the methods:
//
//   - LoadSamples: trains a new table from spam and ham readers, each reader is a single document.
//
//   - Train: same as LoadSamples for in-memory texts, i.e. samples read from a database.
//
//   - Rebuild: same as Train with a new list of stop words, installed together with the table.
//
//   - WithTable: sets a table built earlier, i.e. loaded with LoadTableFile.
//
// Stop words are parsed with ParseStopWords, a reader may contain one word per line or several
// comma-separated words per line, and set with SetStopWords or Rebuild. A nil list means the builtin
// english stop list, an empty list disables stop words.
//
// Training runs in two phases. First every document is recorded into TermStats: each occurrence of
// a term increments the count of its class, each distinct term of a document increments its document
// frequency once. Then Compute converts the statistics to a Table of P(spam|term), dropping terms seen
// in Config.MinDocFrequency documents or fewer. The Table is immutable and replaced as a whole.
//
// Classification takes spamicities of the known terms of a document, selects up to Config.TermsConsidered
// largest and smallest values in lock-step, combines them with a logit sum and compares the posterior with
// Config.Threshold. A document without known terms gets probability 0.5 and is classified as ham.
package spamicity
