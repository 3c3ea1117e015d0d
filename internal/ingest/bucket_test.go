package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TS01: BucketQueryTokens includes the value's own bucket.
func TestBucketQueryTokens_IncludesOwnBucket(t *testing.T) {
	tokens := BucketQueryTokens(10, 5.0, 1)
	assert.Contains(t, tokens, bucketExactToken(10, 5.0))
}

// TS02: Higher precision widens the neighbor spread.
func TestBucketQueryTokens_PrecisionWidensSpread(t *testing.T) {
	narrow := BucketQueryTokens(10, 5.0, 1)
	wide := BucketQueryTokens(10, 5.0, 3)
	assert.Len(t, narrow, 1)
	assert.Len(t, wide, 5)
}

// TS03: bucketExactToken is stable for values rounding to the same bucket.
func TestBucketExactToken_StableWithinRadius(t *testing.T) {
	assert.Equal(t, bucketExactToken(10, 5.0), bucketExactToken(11, 5.0))
}
