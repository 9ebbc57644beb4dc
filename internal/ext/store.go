package ext

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/funvibe/jype/internal/symbols"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrSnapshotNotFound is returned when a snapshot id is not in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store persists the user-defined part of a symbol table (types declared
// outside the prelude, and local aliases) as snapshots in a sqlite database.
type Store struct {
	db *sql.DB
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	ID      uuid.UUID
	Label   string
	Created time.Time
	Types   int
}

// OpenStore opens (creating if needed) the snapshot database at path.
// Use ":memory:" for a private in-memory store.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	// :memory: databases are private to one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores the types and aliases defined directly in st and
// returns the new snapshot id. Types of outer scopes (the prelude) are not
// stored; LoadSnapshot puts them back by enclosing the prelude.
func (s *Store) SaveSnapshot(ctx context.Context, st *symbols.SymbolTable, label string) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, label, created_at) VALUES (?, ?, ?)`,
		id.String(), label, time.Now().UTC().UnixNano()); err != nil {
		return uuid.Nil, fmt.Errorf("inserting snapshot: %w", err)
	}

	for seq, sym := range st.Types() {
		supers := make([]string, 0, len(sym.Supertypes()))
		for _, sup := range sym.Supertypes() {
			supers = append(supers, sup.Name())
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_types (snapshot_id, seq, name, arity, supertypes) VALUES (?, ?, ?, ?, ?)`,
			id.String(), seq, sym.Name(), sym.Arity(), strings.Join(supers, ",")); err != nil {
			return uuid.Nil, fmt.Errorf("inserting type %s: %w", sym.Name(), err)
		}
	}

	aliases := st.LocalAliases()
	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_aliases (snapshot_id, alias, target) VALUES (?, ?, ?)`,
			id.String(), alias, aliases[alias]); err != nil {
			return uuid.Nil, fmt.Errorf("inserting alias %s: %w", alias, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return id, nil
}

// LoadSnapshot rebuilds a symbol table from a stored snapshot. The table
// encloses the prelude, and every loaded type has origin "snapshot:<id>".
func (s *Store) LoadSnapshot(ctx context.Context, id uuid.UUID) (*symbols.SymbolTable, error) {
	var label string
	err := s.db.QueryRowContext(ctx, `SELECT label FROM snapshots WHERE id = ?`, id.String()).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", id, err)
	}

	types, err := s.snapshotTypes(ctx, id)
	if err != nil {
		return nil, err
	}
	aliases, err := s.snapshotAliases(ctx, id)
	if err != nil {
		return nil, err
	}

	st := symbols.NewSymbolTable()
	origin := "snapshot:" + id.String()
	for _, row := range types {
		if _, err := st.DefineType(row.name, row.arity, row.supertypes, origin); err != nil {
			return nil, fmt.Errorf("%s: %w", origin, err)
		}
	}
	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		if err := st.DefineAlias(alias, aliases[alias]); err != nil {
			return nil, fmt.Errorf("%s: %w", origin, err)
		}
	}
	return st, nil
}

type typeRow struct {
	name       string
	arity      int
	supertypes []string
}

func (s *Store) snapshotTypes(ctx context.Context, id uuid.UUID) ([]typeRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, arity, supertypes FROM snapshot_types WHERE snapshot_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("reading types of %s: %w", id, err)
	}
	defer rows.Close()

	var out []typeRow
	for rows.Next() {
		var (
			row    typeRow
			supers string
		)
		if err := rows.Scan(&row.name, &row.arity, &supers); err != nil {
			return nil, fmt.Errorf("scanning type of %s: %w", id, err)
		}
		if supers != "" {
			row.supertypes = strings.Split(supers, ",")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading types of %s: %w", id, err)
	}
	return out, nil
}

func (s *Store) snapshotAliases(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT alias, target FROM snapshot_aliases WHERE snapshot_id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("reading aliases of %s: %w", id, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var alias, target string
		if err := rows.Scan(&alias, &target); err != nil {
			return nil, fmt.Errorf("scanning alias of %s: %w", id, err)
		}
		out[alias] = target
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading aliases of %s: %w", id, err)
	}
	return out, nil
}

// ListSnapshots returns every snapshot, oldest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.label, s.created_at, COUNT(t.seq)
		FROM snapshots s
		LEFT JOIN snapshot_types t ON t.snapshot_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at, s.rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var (
			info    SnapshotInfo
			rawID   string
			created int64
		)
		if err := rows.Scan(&rawID, &info.Label, &created, &info.Types); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if info.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("snapshot id %q: %w", rawID, err)
		}
		info.Created = time.Unix(0, created).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes a snapshot and everything stored with it.
func (s *Store) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	for _, table := range []string{"snapshot_types", "snapshot_aliases"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE snapshot_id = ?`, id.String()); err != nil {
			return fmt.Errorf("deleting snapshot %s: %w", id, err)
		}
	}
	return tx.Commit()
}
