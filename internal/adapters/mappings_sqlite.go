package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"linkie-web/internal/ports"
	"linkie-web/internal/types"
)

// SQLiteMappingsStore keeps the classes of many (namespace, version)
// pairs in one database.
type SQLiteMappingsStore struct {
	Namespace string
	db        *sql.DB
}

func OpenSQLiteMappingsStore(path string, namespace string) (*SQLiteMappingsStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open mappings database").
			WithCause(err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open mappings database").
			WithCause(err)
	}
	if _, err := db.Exec(mappingsSchemaDDL); err != nil {
		db.Close()
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to migrate mappings database").
			WithCause(err)
	}
	return &SQLiteMappingsStore{Namespace: namespace, db: db}, nil
}

const mappingsSchemaDDL = `
CREATE TABLE IF NOT EXISTS classes (
  id            INTEGER PRIMARY KEY,
  namespace     TEXT NOT NULL,
  version       TEXT NOT NULL,
  ordinal       INTEGER NOT NULL,
  intermediary  TEXT NOT NULL,
  obf           TEXT NOT NULL DEFAULT '',
  obf_client    TEXT NOT NULL DEFAULT '',
  obf_server    TEXT NOT NULL DEFAULT '',
  named         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_classes_version ON classes(namespace, version, ordinal);

CREATE TABLE IF NOT EXISTS members (
  id            INTEGER PRIMARY KEY,
  class_id      INTEGER NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
  kind          TEXT NOT NULL,
  ordinal       INTEGER NOT NULL,
  intermediary  TEXT NOT NULL,
  obf           TEXT NOT NULL DEFAULT '',
  obf_client    TEXT NOT NULL DEFAULT '',
  obf_server    TEXT NOT NULL DEFAULT '',
  named         TEXT NOT NULL DEFAULT '',
  descriptor    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_members_class ON members(class_id, kind, ordinal);
`

func (s *SQLiteMappingsStore) Close() error {
	return s.db.Close()
}

// HasVersion reports false only when the version is known to be absent.
// A failing query reports true so the following load surfaces the error.
func (s *SQLiteMappingsStore) HasVersion(version string) bool {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM classes WHERE namespace = ? AND version = ? LIMIT 1`,
		s.Namespace, version,
	).Scan(&one)
	switch {
	case err == nil:
		return true
	case errors.Is(err, sql.ErrNoRows):
		return false
	default:
		log.Warn().Err(err).
			Str("namespace", s.Namespace).
			Str("version", version).
			Msg("mappings version lookup failed")
		return true
	}
}

// Versions lists the stored versions in lexical order.
func (s *SQLiteMappingsStore) Versions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT version FROM classes WHERE namespace = ?`, s.Namespace)
	if err != nil {
		return nil, queryError(err)
	}
	defer rows.Close()
	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, queryError(err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err)
	}
	sort.Strings(versions)
	return versions, nil
}

func (s *SQLiteMappingsStore) LoadClasses(ctx context.Context, version string) ([]types.Class, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, intermediary, obf, obf_client, obf_server, named
FROM classes WHERE namespace = ? AND version = ? ORDER BY ordinal`, s.Namespace, version)
	if err != nil {
		return nil, queryError(err)
	}
	var classes []types.Class
	positions := map[int64]int{}
	for rows.Next() {
		var id int64
		var class types.Class
		if err := rows.Scan(&id, &class.IntermediaryName, &class.ObfMergedName, &class.ObfClientName, &class.ObfServerName, &class.MappedName); err != nil {
			rows.Close()
			return nil, queryError(err)
		}
		positions[id] = len(classes)
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, queryError(err)
	}
	rows.Close()
	if len(classes) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no mappings stored for %s %s", s.Namespace, version))
	}

	members, err := s.db.QueryContext(ctx, `
SELECT m.class_id, m.kind, m.intermediary, m.obf, m.obf_client, m.obf_server, m.named, m.descriptor
FROM members m JOIN classes c ON c.id = m.class_id
WHERE c.namespace = ? AND c.version = ?
ORDER BY m.class_id, m.ordinal`, s.Namespace, version)
	if err != nil {
		return nil, queryError(err)
	}
	defer members.Close()
	for members.Next() {
		var classID int64
		var member types.Member
		if err := members.Scan(&classID, &member.Kind, &member.IntermediaryName, &member.ObfMergedName, &member.ObfClientName, &member.ObfServerName, &member.MappedName, &member.IntermediaryDesc); err != nil {
			return nil, queryError(err)
		}
		idx, ok := positions[classID]
		if !ok {
			continue
		}
		if member.Kind == types.MemberKindMethod {
			classes[idx].Methods = append(classes[idx].Methods, member)
		} else {
			classes[idx].Fields = append(classes[idx].Fields, member)
		}
	}
	if err := members.Err(); err != nil {
		return nil, queryError(err)
	}
	return classes, nil
}

// ImportClasses replaces the stored classes of version.
func (s *SQLiteMappingsStore) ImportClasses(ctx context.Context, version string, classes []types.Class) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return queryError(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM classes WHERE namespace = ? AND version = ?`, s.Namespace, version); err != nil {
		return queryError(err)
	}
	classStmt, err := tx.PrepareContext(ctx, `
INSERT INTO classes (namespace, version, ordinal, intermediary, obf, obf_client, obf_server, named)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return queryError(err)
	}
	defer classStmt.Close()
	memberStmt, err := tx.PrepareContext(ctx, `
INSERT INTO members (class_id, kind, ordinal, intermediary, obf, obf_client, obf_server, named, descriptor)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return queryError(err)
	}
	defer memberStmt.Close()

	for i, class := range classes {
		res, err := classStmt.ExecContext(ctx, s.Namespace, version, i,
			class.IntermediaryName, class.ObfMergedName, class.ObfClientName, class.ObfServerName, class.MappedName)
		if err != nil {
			return queryError(err)
		}
		classID, err := res.LastInsertId()
		if err != nil {
			return queryError(err)
		}
		ordinal := 0
		for _, group := range [][]types.Member{class.Fields, class.Methods} {
			for _, member := range group {
				if _, err := memberStmt.ExecContext(ctx, classID, member.Kind, ordinal,
					member.IntermediaryName, member.ObfMergedName, member.ObfClientName, member.ObfServerName,
					member.MappedName, member.IntermediaryDesc); err != nil {
					return queryError(err)
				}
				ordinal++
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return queryError(err)
	}
	return nil
}

func queryError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("mappings database query failed").
		WithCause(err)
}

var _ ports.MappingsStorePort = (*SQLiteMappingsStore)(nil)
