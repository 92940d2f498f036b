// Package search provides a simple, deterministic in-memory search
// index over catalog dishes. It exists so an embedding UI can offer
// as-you-type dish lookup without touching the catalog's internals:
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode case folding via golang.org/x/text, so queries match
//     regardless of case or script-specific casing rules
//   - Matching on display name, alternate (dialect) name, and category
//   - Deterministic scoring and sorting (ties resolve to catalog order)
//   - Immutable after construction; rebuild after catalog mutations
//
// Scoring prefers direct substring hits on a name over category hits,
// and falls back to token-set overlap (Jaccard) for multi-word queries.
package search

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tablerun/go-pos-core/internal/domain"
)

// Match is one ranked lookup hit.
type Match struct {
	DishID int
	Name   string
	Score  float64
}

// Option configures index construction.
type Option func(*config)

type config struct {
	minScore float64
}

func defaultConfig() config {
	return config{minScore: 0}
}

// WithMinScore drops hits scoring below f (useful to suppress weak
// token-overlap matches in short catalogs).
func WithMinScore(f float64) Option {
	return func(c *config) {
		if f > 0 {
			c.minScore = f
		}
	}
}

type doc struct {
	id       int
	name     string
	pos      int // catalog order, tie-breaker
	foldName string
	foldAlt  string
	foldCat  string
	tokens   map[string]struct{}
}

// Index is a read-only snapshot of the catalog for lookups. Safe for
// concurrent readers; rebuild it after the catalog changes.
type Index struct {
	cfg  config
	docs []doc
}

var folder = cases.Fold()

// NewIndex builds an index over the given dishes in catalog order.
func NewIndex(dishes []*domain.Dish, opts ...Option) *Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	docs := make([]doc, 0, len(dishes))
	for i, d := range dishes {
		fn := folder.String(d.Name)
		fa := folder.String(d.DialectName)
		fc := folder.String(d.Category)
		docs = append(docs, doc{
			id:       d.ID,
			name:     d.Name,
			pos:      i,
			foldName: fn,
			foldAlt:  fa,
			foldCat:  fc,
			tokens:   tokenize(fn + " " + fa + " " + fc),
		})
	}
	return &Index{cfg: cfg, docs: docs}
}

// Lookup returns up to k dishes matching query, best first. An empty
// or whitespace query returns nil. k <= 0 defaults to 5.
func (i *Index) Lookup(query string, k int) []Match {
	q := strings.TrimSpace(query)
	if q == "" || len(i.docs) == 0 {
		return nil
	}
	if k <= 0 {
		k = 5
	}
	fq := folder.String(q)
	qTokens := tokenize(fq)

	buf := make([]Match, 0, k)
	pos := make(map[int]int, k)
	for _, d := range i.docs {
		score := d.score(fq, qTokens)
		if score <= 0 || score < i.cfg.minScore {
			continue
		}
		pos[d.id] = d.pos
		buf = append(buf, Match{DishID: d.id, Name: d.name, Score: score})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		return pos[buf[a].DishID] < pos[buf[b].DishID]
	})
	if k > len(buf) {
		k = len(buf)
	}
	return buf[:k]
}

// score rates one dish against a folded query. Direct name hits beat
// alternate-name hits beat category hits; token overlap is the floor.
func (d doc) score(fq string, qTokens map[string]struct{}) float64 {
	switch {
	case strings.Contains(d.foldName, fq):
		return 1.0
	case d.foldAlt != "" && strings.Contains(d.foldAlt, fq):
		return 0.9
	case d.foldCat != "" && strings.Contains(d.foldCat, fq):
		return 0.6
	}
	over := overlap(qTokens, d.tokens)
	if over == 0 {
		return 0
	}
	union := float64(len(qTokens) + len(d.tokens) - over)
	if union <= 0 {
		return 0
	}
	// Cap below the weakest substring score so field hits always rank first.
	return 0.5 * float64(over) / union
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*|\p{N}+`)

func tokenize(s string) map[string]struct{} {
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
