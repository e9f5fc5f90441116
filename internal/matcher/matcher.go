// Package matcher ranks small in-memory collections against a free-text query.
//
// Matching runs in two phases. A record is a strict match when its combined
// searched text contains every query token as a substring. Only when no record
// matches strictly are records compared fuzzily, token by token, using a
// Levenshtein similarity ratio. The two phases never mix in one result.
//
// The package is stateless: every call is a pure function of its arguments and
// inputs are never mutated, so callers may run matches concurrently.
package matcher

import (
	"fmt"
	"sort"
	"strings"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/internal/tokenizer"
)

// DefaultThreshold is the minimum average fuzzy similarity used when callers have no preference.
const DefaultThreshold = 0.5

const (
	strictBaseScore  = 100.0
	phraseBonusScore = 50.0
	lengthPenalty    = 0.1
)

// Field selects one textual value from a record.
type Field[T any] struct {
	Name  string
	Value func(T) string
}

// Phase tells which matching phase produced a result.
type Phase int

const (
	// PhaseAll marks pass-through results returned for an empty query.
	PhaseAll Phase = iota
	// PhaseStrict marks records containing every query token.
	PhaseStrict
	// PhaseFuzzy marks records accepted by similarity.
	PhaseFuzzy
)

func (p Phase) String() string {
	switch p {
	case PhaseStrict:
		return "strict"
	case PhaseFuzzy:
		return "fuzzy"
	default:
		return "all"
	}
}

// Result pairs a matched record with its relevance score.
// Strict scores are around 100-150 minus a length penalty, fuzzy scores are in [0, 1];
// the two scales are never compared because one call returns a single phase.
type Result[T any] struct {
	Record T
	Score  float64
	Phase  Phase
}

// Match returns the records matching query, most relevant first.
// An empty or whitespace-only query returns records unchanged.
// Records with equal scores keep their input order.
func Match[T any](records []T, query string, fields []Field[T], threshold float64) ([]T, error) {
	if err := validate(fields, threshold); err != nil {
		return nil, err
	}

	phrase, tokens := tokenizer.NormalizeQuery(query)
	if len(tokens) == 0 {
		return records, nil
	}

	results := rank(records, phrase, tokens, fields, threshold)
	matched := make([]T, len(results))
	for i, res := range results {
		matched[i] = res.Record
	}
	return matched, nil
}

// MatchScored is Match with the score and phase of every returned record.
// For an empty query every record is returned with PhaseAll and a zero score.
func MatchScored[T any](records []T, query string, fields []Field[T], threshold float64) ([]Result[T], error) {
	if err := validate(fields, threshold); err != nil {
		return nil, err
	}

	phrase, tokens := tokenizer.NormalizeQuery(query)
	if len(tokens) == 0 {
		all := make([]Result[T], len(records))
		for i, r := range records {
			all[i] = Result[T]{Record: r, Phase: PhaseAll}
		}
		return all, nil
	}

	return rank(records, phrase, tokens, fields, threshold), nil
}

func validate[T any](fields []Field[T], threshold float64) error {
	if len(fields) == 0 {
		return internalErrors.NewValidationError("fields", "at least one field is required")
	}
	for i, f := range fields {
		if f.Value == nil {
			return internalErrors.NewValidationError("fields", fmt.Sprintf("field %d (%q) has no value accessor", i, f.Name))
		}
	}
	// Written so that NaN is rejected too.
	if !(threshold >= 0 && threshold <= 1) {
		return internalErrors.NewValidationError("threshold", "must be between 0 and 1")
	}
	return nil
}

// candidate holds the lower-cased field values of one record for a single call.
// combined joins every selected value, empty ones included; values keeps only
// the non-empty ones for fuzzy comparison.
type candidate[T any] struct {
	record   T
	values   []string
	combined string
}

func rank[T any](records []T, phrase string, tokens []string, fields []Field[T], threshold float64) []Result[T] {
	candidates := make([]candidate[T], len(records))
	for i, r := range records {
		candidates[i] = newCandidate(r, fields)
	}

	results := strictMatches(candidates, phrase, tokens)
	if len(results) == 0 {
		results = fuzzyMatches(candidates, tokens, threshold)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func newCandidate[T any](record T, fields []Field[T]) candidate[T] {
	all := make([]string, len(fields))
	values := make([]string, 0, len(fields))
	for i, f := range fields {
		all[i] = tokenizer.Lower(f.Value(record))
		if all[i] != "" {
			values = append(values, all[i])
		}
	}
	return candidate[T]{
		record:   record,
		values:   values,
		combined: strings.Join(all, " "),
	}
}

func strictMatches[T any](candidates []candidate[T], phrase string, tokens []string) []Result[T] {
	results := make([]Result[T], 0)
	for _, c := range candidates {
		if !containsAll(c.combined, tokens) {
			continue
		}
		score := strictBaseScore
		if strings.Contains(c.combined, phrase) {
			score += phraseBonusScore
		}
		score -= lengthPenalty * float64(len([]rune(c.combined)))
		results = append(results, Result[T]{Record: c.record, Score: score, Phase: PhaseStrict})
	}
	return results
}

func containsAll(text string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(text, token) {
			return false
		}
	}
	return true
}

func fuzzyMatches[T any](candidates []candidate[T], tokens []string, threshold float64) []Result[T] {
	results := make([]Result[T], 0)
	for _, c := range candidates {
		total := 0.0
		for _, token := range tokens {
			total += bestSimilarity(token, c.values)
		}
		avg := total / float64(len(tokens))
		if avg >= threshold {
			results = append(results, Result[T]{Record: c.record, Score: avg, Phase: PhaseFuzzy})
		}
	}
	return results
}

// bestSimilarity compares token with every whole value and every word inside it.
func bestSimilarity(token string, values []string) float64 {
	best := 0.0
	for _, v := range values {
		best = max(best, Similarity(token, v))
		for _, word := range tokenizer.Words(v) {
			best = max(best, Similarity(token, word))
		}
	}
	return best
}
