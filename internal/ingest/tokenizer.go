package ingest

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// fieldAnalyzer splits a raw field value into lowercased word tokens using
// bleve's own tokenizer/registry machinery, reused here purely as a text
// splitter — the tokens it produces feed this repository's posting.Store
// directly, never bleve's own inverted index.
var fieldAnalyzer = buildFieldAnalyzer()

func buildFieldAnalyzer() *analysis.DefaultAnalyzer {
	tokenizer, err := bleve.Config.Cache.TokenizerNamed(unicode.Name)
	if err != nil {
		panic("ingest: unicode tokenizer unavailable: " + err.Error())
	}
	lowercaseFilter, err := bleve.Config.Cache.TokenFilterNamed(lowercase.Name)
	if err != nil {
		panic("ingest: lowercase token filter unavailable: " + err.Error())
	}
	return &analysis.DefaultAnalyzer{
		Tokenizer:    tokenizer,
		TokenFilters: []analysis.TokenFilter{lowercaseFilter},
	}
}

// splitField tokenizes a field's raw value into the words a category's
// exact bundle indexes.
func splitField(value string) []string {
	stream := fieldAnalyzer.Analyze([]byte(value))
	words := make([]string, 0, len(stream))
	for _, tok := range stream {
		if len(tok.Term) == 0 {
			continue
		}
		words = append(words, string(tok.Term))
	}
	return words
}
