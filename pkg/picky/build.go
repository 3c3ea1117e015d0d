package picky

import (
	"path/filepath"

	"github.com/Aman-CERP/picky/internal/config"
	"github.com/Aman-CERP/picky/internal/ingest"
	"github.com/Aman-CERP/picky/internal/snapshot"
)

// Record is one source row fed into Build: an id and the raw field
// values its configured categories read from, keyed by field name (or by
// a category's From alias).
type Record = ingest.Record

// Build runs the reference ingest pipeline for a single index's
// configuration over records, writing the resulting snapshot to
// filepath.Join(snapshotDir, idxCfg.Name, "snapshot.db") using the same
// conventional layout Open/SourcesFromDir expect.
func Build(idxCfg config.Index, records []Record, snapshotDir string) error {
	builder := ingest.NewBuilder(idxCfg)
	index, err := builder.Build(records)
	if err != nil {
		return err
	}
	path := filepath.Join(snapshotDir, idxCfg.Name, "snapshot.db")
	return snapshot.Dump(index, path)
}

// BuildAll runs Build for every index in cfg, looking up each index's
// records in byIndex by index name. An index with no entry in byIndex is
// built with zero records.
func BuildAll(cfg *config.Config, byIndex map[string][]Record, snapshotDir string) error {
	for _, idxCfg := range cfg.Indexes {
		if err := Build(idxCfg, byIndex[idxCfg.Name], snapshotDir); err != nil {
			return err
		}
	}
	return nil
}
