// Package snapshot persists a posting.Index to disk and loads it back, the
// external "load(path) -> Index" / "dump(index, path) -> error"
// collaborators the query core expects (spec.md §6, §5's "a new immutable
// snapshot may be swapped in atomically").
package snapshot

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	pickyerrors "github.com/Aman-CERP/picky/internal/errors"
	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/gofrs/flock"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS postings (
	idx      TEXT NOT NULL,
	category TEXT NOT NULL,
	kind     INTEGER NOT NULL,
	token    TEXT NOT NULL,
	ids      BLOB NOT NULL,
	PRIMARY KEY (idx, category, kind, token)
);
CREATE TABLE IF NOT EXISTS weights (
	idx      TEXT NOT NULL,
	category TEXT NOT NULL,
	token    TEXT NOT NULL,
	weight   REAL NOT NULL,
	PRIMARY KEY (idx, category, token)
);
CREATE TABLE IF NOT EXISTS similarity (
	idx      TEXT NOT NULL,
	category TEXT NOT NULL,
	code     TEXT NOT NULL,
	token    TEXT NOT NULL,
	PRIMARY KEY (idx, category, code, token)
);
CREATE TABLE IF NOT EXISTS categories (
	idx         TEXT NOT NULL,
	name        TEXT NOT NULL,
	position    INTEGER NOT NULL,
	aliases     TEXT NOT NULL,
	weight      REAL NOT NULL,
	similarity_k INTEGER NOT NULL,
	PRIMARY KEY (idx, name)
);
`

// lockFileName is the flock-guarded sentinel in the snapshot directory,
// preventing a concurrent Dump from racing a Load of the same directory.
const lockFileName = ".picky-snapshot.lock"

// Dump writes index's full contents to a sqlite database at path,
// overwriting any prior contents. The snapshot directory is flock-guarded
// for the duration of the write.
func Dump(index posting.Index, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pickyerrors.InternalError("failed to create snapshot directory", err)
	}

	fl := flock.New(filepath.Join(dir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return pickyerrors.InternalError("failed to acquire snapshot lock", err)
	}
	if !locked {
		return pickyerrors.InternalError("snapshot directory is locked by a concurrent writer", nil)
	}
	defer fl.Unlock()

	_ = os.Remove(path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return pickyerrors.SnapshotMissingError("failed to open snapshot database "+path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return pickyerrors.InternalError("failed to create snapshot schema", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return pickyerrors.InternalError("failed to begin snapshot transaction", err)
	}
	defer tx.Rollback()

	for _, cat := range index.Categories {
		if err := dumpCategory(tx, index.Name, cat); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return pickyerrors.InternalError("failed to commit snapshot", err)
	}
	return nil
}

func dumpCategory(tx *sql.Tx, indexName string, cat posting.Category) error {
	simK := 0
	if sb := cat.SimilarityBundle(); sb != nil {
		if smb, ok := sb.(*posting.SimilarityMapBundle); ok {
			simK = smb.K()
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO categories (idx, name, position, aliases, weight, similarity_k) VALUES (?, ?, ?, ?, ?, ?)`,
		indexName, cat.Name, cat.Index, joinAliases(cat.Aliases), cat.Weight, simK,
	); err != nil {
		return pickyerrors.InternalError("failed to write category row", err)
	}

	if err := dumpBundle(tx, indexName, cat.Name, posting.Exact, cat.Exact()); err != nil {
		return err
	}
	if err := dumpBundle(tx, indexName, cat.Name, posting.Partial, cat.Partial()); err != nil {
		return err
	}
	if sb := cat.SimilarityBundle(); sb != nil {
		if err := dumpBundle(tx, indexName, cat.Name, posting.Similarity, sb); err != nil {
			return err
		}
		if smb, ok := sb.(*posting.SimilarityMapBundle); ok {
			for token, code := range smb.Codes() {
				if _, err := tx.Exec(
					`INSERT INTO similarity (idx, category, code, token) VALUES (?, ?, ?, ?)`,
					indexName, cat.Name, code, token,
				); err != nil {
					return pickyerrors.InternalError("failed to write similarity row", err)
				}
			}
		}
	}
	return nil
}

func dumpBundle(tx *sql.Tx, indexName, categoryName string, kind posting.Kind, b posting.Bundle) error {
	if b == nil {
		return nil
	}
	mb, ok := b.(*posting.MapBundle)
	if !ok {
		return pickyerrors.InternalError(fmt.Sprintf("bundle for category %s kind %s is not dumpable", categoryName, kind), nil)
	}
	for _, token := range mb.Tokens() {
		ids := mb.IDsFor(token)
		weight, _ := mb.WeightFor(token)
		if _, err := tx.Exec(
			`INSERT INTO postings (idx, category, kind, token, ids) VALUES (?, ?, ?, ?, ?)`,
			indexName, categoryName, int(kind), token, encodeIDs(ids),
		); err != nil {
			return pickyerrors.InternalError("failed to write posting row", err)
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO weights (idx, category, token, weight) VALUES (?, ?, ?, ?)`,
			indexName, categoryName, token, weight,
		); err != nil {
			return pickyerrors.InternalError("failed to write weight row", err)
		}
	}
	return nil
}

// Load reads the named index back from a snapshot database at path.
func Load(path string, indexName string) (posting.Index, error) {
	if _, err := os.Stat(path); err != nil {
		return posting.Index{}, pickyerrors.SnapshotMissingError("snapshot not found: "+path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return posting.Index{}, pickyerrors.SnapshotMissingError("failed to open snapshot "+path, err)
	}
	defer db.Close()

	catRows, err := db.Query(
		`SELECT name, position, aliases, weight, similarity_k FROM categories WHERE idx = ? ORDER BY position`,
		indexName,
	)
	if err != nil {
		return posting.Index{}, pickyerrors.SnapshotCorruptError("failed to read categories", err)
	}
	defer catRows.Close()

	type catMeta struct {
		name       string
		position   int
		aliases    []string
		weight     float64
		similarity int
	}
	var metas []catMeta
	for catRows.Next() {
		var m catMeta
		var aliasesJoined string
		if err := catRows.Scan(&m.name, &m.position, &aliasesJoined, &m.weight, &m.similarity); err != nil {
			return posting.Index{}, pickyerrors.SnapshotCorruptError("failed to scan category row", err)
		}
		m.aliases = splitAliases(aliasesJoined)
		metas = append(metas, m)
	}
	if len(metas) == 0 {
		return posting.Index{}, pickyerrors.UnknownIndexError(indexName)
	}

	categories := make([]posting.Category, 0, len(metas))
	for _, m := range metas {
		exact, err := loadBundle(db, indexName, m.name, posting.Exact)
		if err != nil {
			return posting.Index{}, err
		}
		partial, err := loadBundle(db, indexName, m.name, posting.Partial)
		if err != nil {
			return posting.Index{}, err
		}

		var simBundle posting.SimilarityBundle
		if m.similarity > 0 {
			plain, err := loadBundle(db, indexName, m.name, posting.Similarity)
			if err != nil {
				return posting.Index{}, err
			}
			smb := posting.NewSimilarityMapBundle(m.similarity)
			if plain != nil {
				for _, token := range plain.(*posting.MapBundle).Tokens() {
					for _, id := range plain.IDsFor(token) {
						w, _ := plain.WeightFor(token)
						smb.Put(token, id, w)
					}
				}
			}
			if err := loadSimilarityCodes(db, indexName, m.name, smb); err != nil {
				return posting.Index{}, err
			}
			simBundle = smb
		}

		categories = append(categories, posting.NewCategory(m.name, m.position, m.aliases, m.weight, exact, partial, simBundle))
	}

	return posting.Index{Name: indexName, Categories: categories}, nil
}

func loadBundle(db *sql.DB, indexName, categoryName string, kind posting.Kind) (posting.Bundle, error) {
	rows, err := db.Query(
		`SELECT p.token, p.ids, w.weight FROM postings p
		 LEFT JOIN weights w ON w.idx = p.idx AND w.category = p.category AND w.token = p.token
		 WHERE p.idx = ? AND p.category = ? AND p.kind = ?`,
		indexName, categoryName, int(kind),
	)
	if err != nil {
		return nil, pickyerrors.SnapshotCorruptError("failed to read postings", err)
	}
	defer rows.Close()

	mb := posting.NewMapBundle(kind)
	found := false
	for rows.Next() {
		var token string
		var blob []byte
		var weight sql.NullFloat64
		if err := rows.Scan(&token, &blob, &weight); err != nil {
			return nil, pickyerrors.SnapshotCorruptError("failed to scan posting row", err)
		}
		found = true
		ids := decodeIDs(blob)
		w := 0.0
		if weight.Valid {
			w = weight.Float64
		}
		for _, id := range ids {
			mb.Put(token, id, w)
		}
	}
	if !found {
		return nil, nil
	}
	return mb, nil
}

func loadSimilarityCodes(db *sql.DB, indexName, categoryName string, smb *posting.SimilarityMapBundle) error {
	rows, err := db.Query(
		`SELECT code, token FROM similarity WHERE idx = ? AND category = ?`,
		indexName, categoryName,
	)
	if err != nil {
		return pickyerrors.SnapshotCorruptError("failed to read similarity codes", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code, token string
		if err := rows.Scan(&code, &token); err != nil {
			return pickyerrors.SnapshotCorruptError("failed to scan similarity row", err)
		}
		smb.PutCode(token, code)
	}
	return nil
}

func encodeIDs(ids []posting.ID) []byte {
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], id)
	}
	return buf
}

func decodeIDs(blob []byte) []posting.ID {
	n := len(blob) / 4
	ids := make([]posting.ID, n)
	for i := 0; i < n; i++ {
		ids[i] = binary.LittleEndian.Uint32(blob[i*4:])
	}
	return ids
}

func joinAliases(aliases []string) string {
	out := ""
	for i, a := range aliases {
		if i > 0 {
			out += "\x1f"
		}
		out += a
	}
	return out
}

func splitAliases(joined string) []string {
	if joined == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(joined); i++ {
		if joined[i] == '\x1f' {
			out = append(out, joined[start:i])
			start = i + 1
		}
	}
	out = append(out, joined[start:])
	return out
}
