package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yourorg/codespec/pkg/types"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates, if needed) the history database at
// dsn. Parent directories of a file path are created.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			model TEXT NOT NULL,
			chunk_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chunk_results (
			run_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			file TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT NOT NULL,
			raw_output TEXT NOT NULL,
			model TEXT NOT NULL,
			paths_merged INTEGER NOT NULL,
			components_merged INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY(run_id, chunk_index)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) CreateRun(in types.UserInput, model string, chunkCount int) (*types.Run, error) {
	now := time.Now().UTC()
	id, err := s.nextRunID(now)
	if err != nil {
		return nil, err
	}
	run := &types.Run{
		ID:          id,
		SourcePath:  in.Path,
		Title:       in.Title,
		Description: in.Description,
		Model:       model,
		ChunkCount:  chunkCount,
		Status:      types.RunRunning,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = s.db.Exec(`INSERT INTO runs(id,source_path,title,description,model,chunk_count,status,created_at,updated_at) VALUES(?,?,?,?,?,?,?,?,?)`,
		run.ID, run.SourcePath, run.Title, run.Description, run.Model, run.ChunkCount, run.Status, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) nextRunID(now time.Time) (string, error) {
	prefix := fmt.Sprintf("run_%s_", now.Format("20060102"))
	rows, err := s.db.Query(`SELECT id FROM runs WHERE id LIKE ?`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()
	maxN := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if n > maxN {
			maxN = n
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, maxN+1), nil
}

func (s *SQLiteStore) UpdateRunStatus(id, status string) error {
	res, err := s.db.Exec(`UPDATE runs SET status=?, updated_at=? WHERE id=?`, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *SQLiteStore) ListRuns() ([]types.Run, error) {
	rows, err := s.db.Query(`SELECT id,source_path,title,description,model,chunk_count,status,created_at,updated_at FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.Run
	for rows.Next() {
		var r types.Run
		if err := rows.Scan(&r.ID, &r.SourcePath, &r.Title, &r.Description, &r.Model, &r.ChunkCount, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveChunkResult(res *types.ChunkResult) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO chunk_results(run_id,chunk_index,file,status,reason,raw_output,model,paths_merged,components_merged,created_at)
	VALUES(?,?,?,?,?,?,?,?,?,?)
	ON CONFLICT(run_id,chunk_index) DO UPDATE SET file=excluded.file,status=excluded.status,reason=excluded.reason,raw_output=excluded.raw_output,model=excluded.model,paths_merged=excluded.paths_merged,components_merged=excluded.components_merged,created_at=excluded.created_at`,
		res.RunID, res.Index, res.File, res.Status, res.Reason, res.Raw, res.Model, res.PathsMerged, res.ComponentsMerged, res.CreatedAt)
	return err
}

func (s *SQLiteStore) GetChunkResults(runID string) ([]types.ChunkResult, error) {
	rows, err := s.db.Query(`SELECT run_id,chunk_index,file,status,reason,raw_output,model,paths_merged,components_merged,created_at FROM chunk_results WHERE run_id=? ORDER BY chunk_index ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.ChunkResult
	for rows.Next() {
		var c types.ChunkResult
		if err := rows.Scan(&c.RunID, &c.Index, &c.File, &c.Status, &c.Reason, &c.Raw, &c.Model, &c.PathsMerged, &c.ComponentsMerged, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("store is nil")
	}
	return s.db.Close()
}
