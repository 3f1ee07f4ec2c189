// Package resolve turns human references (IDs or names) into API Colombia resource IDs.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/validation"
)

// Named represents any resource with an ID and display name.
type Named struct {
	ID   int
	Name string
}

// Match is a fuzzy match result with score.
type Match struct {
	ID    int
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
)

// AmbiguousError indicates multiple candidates matched equally well.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %d: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

// NotFoundError means no candidate matched the query.
type NotFoundError struct {
	Query       string
	Suggestions []Match
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no match found for %q", e.Query)
	if len(e.Suggestions) > 0 {
		names := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			names[i] = s.Name
		}
		msg += "; did you mean " + strings.Join(names, ", ") + "?"
	}
	return msg
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// fold lowercases s and strips Spanish diacritics so "Bogota" finds "Bogotá".
func fold(s string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
}

type foldedSource []Named

func (s foldedSource) String(i int) string { return fold(s[i].Name) }
func (s foldedSource) Len() int            { return len(s) }

// FuzzyMatch finds the best matching item by name and returns its ID.
//
// Exact matches (ignoring case and accents) win over fuzzy ones. If the top two
// fuzzy results tie on score, it returns *AmbiguousError.
func FuzzyMatch(query string, items []Named) (int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, ErrEmptyQuery
	}
	if len(items) == 0 {
		return 0, ErrEmptyItems
	}

	folded := fold(query)
	var exact []Named
	for _, item := range items {
		if fold(item.Name) == folded {
			exact = append(exact, item)
		}
	}
	switch len(exact) {
	case 1:
		return exact[0].ID, nil
	case 0:
	default:
		matches := make([]Match, 0, len(exact))
		for _, item := range exact {
			matches = append(matches, Match{ID: item.ID, Name: item.Name})
		}
		return 0, &AmbiguousError{Query: query, Matches: matches}
	}

	results := fuzzy.FindFrom(folded, foldedSource(items))
	if len(results) == 0 {
		return 0, &NotFoundError{Query: query}
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return 0, &AmbiguousError{
			Query:   query,
			Matches: buildMatches(items, results, 5),
		}
	}
	return items[results[0].Index].ID, nil
}

// FuzzyMatchAll returns up to limit matches ranked by score (best first).
func FuzzyMatchAll(query string, items []Named, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 || limit <= 0 {
		return nil
	}
	results := fuzzy.FindFrom(fold(query), foldedSource(items))
	return buildMatches(items, results, limit)
}

func buildMatches(items []Named, results fuzzy.Matches, limit int) []Match {
	if len(results) == 0 || limit <= 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			ID:    items[r.Index].ID,
			Name:  items[r.Index].Name,
			Score: r.Score,
		}
	}
	return matches
}

// FromEnvelope extracts (id, name) pairs from a list payload.
func FromEnvelope(env api.Envelope) ([]Named, error) {
	resources, err := env.Resources()
	if err != nil {
		return nil, err
	}
	items := make([]Named, 0, len(resources))
	for _, r := range resources {
		if r.Name == "" {
			continue
		}
		items = append(items, Named{ID: r.ID, Name: r.Name})
	}
	return items, nil
}

// Lister fetches the list payload of one resource type.
type Lister func(ctx context.Context) api.Envelope

// ID resolves ref to a resource ID. Numeric refs are returned as-is; anything
// else is fuzzy matched against the names returned by list.
func ID(ctx context.Context, ref string, list Lister) (int, error) {
	if id, err := validation.ParseID(ref); err == nil {
		return id, nil
	}
	if err := validation.ValidateTerm(ref); err != nil {
		return 0, err
	}
	env := list(ctx)
	if !env.OK() {
		return 0, fmt.Errorf("list candidates for %q: %w", ref, env.Error())
	}
	items, err := FromEnvelope(env)
	if err != nil {
		return 0, fmt.Errorf("list candidates for %q: %w", ref, err)
	}
	id, err := FuzzyMatch(ref, items)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		nf.Suggestions = FuzzyMatchAll(prefix(ref), items, 3)
	}
	return id, err
}

// prefix returns the first three runes of the first word, used to widen suggestions.
func prefix(s string) string {
	fields := strings.Fields(fold(s))
	if len(fields) == 0 {
		return s
	}
	r := []rune(fields[0])
	return string(r[:min(len(r), 3)])
}
