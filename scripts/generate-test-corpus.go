//go:build ignore

// Command generate-test-corpus writes a synthetic JSON records file
// sized for posting-store/intersection benchmarking: one record per id,
// fields drawn uniformly from small word pools so each token's posting
// list spans many ids rather than one id per distinct token.
//
// Usage: go run scripts/generate-test-corpus.go -records 100000 -output testdata/bench/records.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
)

var (
	numRecords = flag.Int("records", 100000, "Number of records to generate")
	outputPath = flag.String("output", "testdata/bench/records.json", "Output JSON file path")
	seed       = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var (
	brands = []string{
		"acme", "zenith", "nova", "orbit", "cascade", "summit", "drift",
		"lumen", "quartz", "vesper", "harbor", "meridian",
	}
	titleWords = []string{
		"running", "trail", "leather", "canvas", "wool", "classic", "retro",
		"lightweight", "waterproof", "insulated", "slim", "wide", "low", "high",
		"shoe", "shoes", "boot", "boots", "sandal", "sandals", "sneaker", "sneakers",
	}
	descriptionWords = []string{
		"durable", "breathable", "cushioned", "flexible", "reinforced",
		"handcrafted", "seamless", "reflective", "recycled", "ergonomic",
		"shock-absorbing", "quick-drying", "anti-slip", "moisture-wicking",
	}
)

type record struct {
	ID     uint32            `json:"id"`
	Fields map[string]string `json:"fields"`
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	records := make([]record, *numRecords)
	for i := range records {
		records[i] = record{
			ID: uint32(i + 1),
			Fields: map[string]string{
				"title":       randomPhrase(rng, titleWords, 2, 4),
				"description": randomPhrase(rng, descriptionWords, 3, 6),
				"brand":       randomWord(rng, brands),
				"price_cents": fmt.Sprintf("%d", 1000+rng.Intn(49000)),
			},
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal records: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d records to %s\n", len(records), *outputPath)
}

func randomWord(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

func randomPhrase(rng *rand.Rand, pool []string, minWords, maxWords int) string {
	n := minWords + rng.Intn(maxWords-minWords+1)
	words := make([]string, n)
	for i := range words {
		words[i] = randomWord(rng, pool)
	}
	phrase := words[0]
	for _, w := range words[1:] {
		phrase += " " + w
	}
	return phrase
}
