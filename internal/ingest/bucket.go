package ingest

import (
	"fmt"
	"math"
)

// BucketQueryTokens turns a numeric query value into the candidate bucket
// tokens a Location category's exact bundle should be probed with: the
// value's own bucket plus precision-1 neighboring buckets on each side,
// giving the 5-20% error margin a bucketed search is expected to tolerate.
// Precision 1 emits the own bucket alone; each step up widens the margin
// by one bucket per side. It is the query-side counterpart of
// bucketExactToken, which yields the own bucket only.
func BucketQueryTokens(value, radius float64, precision int) []string {
	if radius <= 0 {
		radius = 1
	}
	center := int64(math.Round(value / radius))

	spread := int64(precision - 1)
	if spread < 0 {
		spread = 0
	}

	tokens := make([]string, 0, 2*spread+1)
	for b := center - spread; b <= center+spread; b++ {
		tokens = append(tokens, bucketToken(b))
	}
	return tokens
}

// bucketExactToken returns the single token identifying value's own
// bucket, used to index the record (query-time bucketing widens the
// search to BucketQueryTokens' full spread; indexing only needs the exact one).
func bucketExactToken(value, radius float64) string {
	if radius <= 0 {
		radius = 1
	}
	return bucketToken(int64(math.Round(value / radius)))
}

func bucketToken(b int64) string {
	return fmt.Sprintf("b%d", b)
}
