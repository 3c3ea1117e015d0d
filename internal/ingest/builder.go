// Package ingest is a reference implementation of the index-building
// pipeline the query core treats as out of scope: it turns a config.Index
// declaration and a stream of source records into a posting.Index ready
// to hand to internal/snapshot for persistence or internal/search for
// querying.
package ingest

import (
	"fmt"
	"strconv"

	"github.com/Aman-CERP/picky/internal/config"
	"github.com/Aman-CERP/picky/internal/posting"
)

// Record is one source row: a stable id plus its raw field values, keyed
// by field name (a category's own Name, or another category's From
// target).
type Record struct {
	ID     posting.ID
	Fields map[string]string
}

// Builder builds a posting.Index from an index's category declarations.
type Builder struct {
	cfg config.Index
}

// NewBuilder prepares a Builder for cfg.
func NewBuilder(cfg config.Index) *Builder {
	return &Builder{cfg: cfg}
}

// Build runs every configured category over records and returns the
// assembled, ready-to-query posting.Index.
func (b *Builder) Build(records []Record) (posting.Index, error) {
	categories := make([]posting.Category, 0, len(b.cfg.Categories))

	for i, catCfg := range b.cfg.Categories {
		cat, err := b.buildCategory(i, catCfg, records)
		if err != nil {
			return posting.Index{}, fmt.Errorf("category %q: %w", catCfg.Name, err)
		}
		categories = append(categories, cat)
	}

	return posting.Index{Name: b.cfg.Name, Categories: categories}, nil
}

func (b *Builder) buildCategory(position int, catCfg config.Category, records []Record) (posting.Category, error) {
	sourceField := catCfg.Name
	if catCfg.From != "" {
		sourceField = catCfg.From
	}

	exact := posting.NewMapBundle(posting.Exact)

	var partial *posting.MapBundle
	if catCfg.Partial != nil && catCfg.Partial.Enabled {
		partial = posting.NewMapBundle(posting.Partial)
	}

	var similarity *posting.SimilarityMapBundle
	if catCfg.Similarity != nil && catCfg.Similarity.Enabled {
		similarity = posting.NewSimilarityMapBundle(catCfg.Similarity.N)
	}

	for _, rec := range records {
		raw, ok := rec.Fields[sourceField]
		if !ok || raw == "" {
			continue
		}

		if catCfg.Bucketing != nil {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return posting.Category{}, fmt.Errorf("record %d: field %q is not numeric: %w", rec.ID, sourceField, err)
			}
			token := bucketExactToken(value, catCfg.Bucketing.Radius)
			exact.Put(token, rec.ID, catCfg.Weight)
			continue
		}

		for _, word := range splitField(raw) {
			exact.Put(word, rec.ID, catCfg.Weight)

			if partial != nil {
				for _, sub := range substrings(word, catCfg.Partial.From, catCfg.Partial.To) {
					partial.Put(sub, rec.ID, catCfg.Weight)
				}
			}

			if similarity != nil {
				similarity.Put(word, rec.ID, catCfg.Weight)
				similarity.PutCode(word, phoneticCode(word))
			}
		}
	}

	var simBundle posting.SimilarityBundle
	if similarity != nil {
		simBundle = similarity
	}
	var partialBundle posting.Bundle
	if partial != nil {
		partialBundle = partial
	}

	return posting.NewCategory(catCfg.Name, position, catCfg.Qualifiers, catCfg.Weight, exact, partialBundle, simBundle), nil
}
