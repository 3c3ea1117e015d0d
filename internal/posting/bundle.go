package posting

import "sort"

// MapBundle is a straightforward in-memory Bundle backed by a map from
// token to a sorted ascending id list, plus a parallel weight map. It is
// the concrete bundle type the reference ingest pipeline builds and the one
// most tests construct directly.
type MapBundle struct {
	kind    Kind
	ids     map[string][]ID
	weights map[string]float64
}

// NewMapBundle builds an empty bundle of the given kind.
func NewMapBundle(kind Kind) *MapBundle {
	return &MapBundle{
		kind:    kind,
		ids:     make(map[string][]ID),
		weights: make(map[string]float64),
	}
}

// Kind implements Bundle.
func (b *MapBundle) Kind() Kind { return b.kind }

// IDsFor implements Bundle.
func (b *MapBundle) IDsFor(token string) []ID {
	return b.ids[token]
}

// WeightFor implements Bundle.
func (b *MapBundle) WeightFor(token string) (float64, bool) {
	w, ok := b.weights[token]
	return w, ok
}

// Put records id under token with the given weight, keeping the token's id
// list sorted ascending and free of duplicates. Not safe for concurrent
// use — callers build a MapBundle fully before handing it to a Store.
func (b *MapBundle) Put(token string, id ID, weight float64) {
	b.weights[token] = weight

	list := b.ids[token]
	i := sort.Search(len(list), func(i int) bool { return list[i] >= id })
	if i < len(list) && list[i] == id {
		return
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = id
	b.ids[token] = list
}

// Tokens returns every token with at least one posting, in unspecified
// order. Used by snapshot Dump and Load to walk a bundle's postings.
func (b *MapBundle) Tokens() []string {
	tokens := make([]string, 0, len(b.ids))
	for t := range b.ids {
		tokens = append(tokens, t)
	}
	return tokens
}

// SimilarityMapBundle is a MapBundle additionally indexed by phonetic code,
// implementing SimilarityBundle.
type SimilarityMapBundle struct {
	*MapBundle

	// codeOf maps a token to its phonetic code.
	codeOf map[string]string
	// tokensByCode maps a phonetic code to every token sharing it.
	tokensByCode map[string][]string
	// k bounds the number of siblings Similar returns.
	k int
}

// NewSimilarityMapBundle builds an empty similarity bundle returning up to
// k siblings per lookup.
func NewSimilarityMapBundle(k int) *SimilarityMapBundle {
	return &SimilarityMapBundle{
		MapBundle:    NewMapBundle(Similarity),
		codeOf:       make(map[string]string),
		tokensByCode: make(map[string][]string),
		k:            k,
	}
}

// PutCode associates token with a phonetic code, registering it as a
// sibling of every other token already sharing that code.
func (b *SimilarityMapBundle) PutCode(token, code string) {
	if _, ok := b.codeOf[token]; ok {
		return
	}
	b.codeOf[token] = code
	b.tokensByCode[code] = append(b.tokensByCode[code], token)
}

// K returns the configured sibling-count bound, used by snapshot
// persistence to reconstruct the bundle on load.
func (b *SimilarityMapBundle) K() int { return b.k }

// Codes returns a copy of the token-to-phonetic-code mapping, used by
// snapshot persistence to dump the similarity table.
func (b *SimilarityMapBundle) Codes() map[string]string {
	out := make(map[string]string, len(b.codeOf))
	for t, c := range b.codeOf {
		out[t] = c
	}
	return out
}

// Similar implements SimilarityBundle.
func (b *SimilarityMapBundle) Similar(token string) []string {
	code, ok := b.codeOf[token]
	if !ok {
		return nil
	}
	siblings := b.tokensByCode[code]
	out := make([]string, 0, len(siblings))
	for _, s := range siblings {
		if s == token {
			continue
		}
		out = append(out, s)
		if b.k > 0 && len(out) >= b.k {
			break
		}
	}
	return out
}
