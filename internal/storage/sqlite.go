// Package storage provides SQLite-based persistence for scores and replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Player    string // SSH user or empty for local play
	Score     int
	Distance  float64
	BestCombo int
	Seed      uint32
	ReplayID  int64 // Stored replay of the run, 0 when there is none
	CreatedAt time.Time
}

// ReplayEntry is a stored replay. Data holds the encoded replay JSON.
type ReplayEntry struct {
	ID        int64
	GameID    string
	Player    string
	Mode      string
	Seed      uint32
	Score     int
	Distance  float64
	BestCombo int
	Data      []byte
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			best_combo INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			replay_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			distance REAL NOT NULL,
			best_combo INTEGER NOT NULL,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_game_id ON replays(game_id);
		CREATE INDEX IF NOT EXISTS idx_replays_top ON replays(game_id, score DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	// Databases created before scores linked their replays lack the column.
	return s.addColumn("scores", "replay_id", "INTEGER")
}

// addColumn adds a column to table unless it already exists.
func (s *Store) addColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a new score.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO scores (game_id, player, score, distance, best_combo, seed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.GameID, e.Player, e.Score, e.Distance, e.BestCombo, int64(e.Seed),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveRun stores the score and its replay in one transaction and links them.
// Returns the replay ID.
func (s *Store) SaveRun(score ScoreEntry, replay ReplayEntry) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	//nolint:errcheck // Rollback after Commit is a no-op
	defer tx.Rollback()

	id, err := insertReplay(tx, replay)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		`INSERT INTO scores (game_id, player, score, distance, best_combo, seed, replay_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		score.GameID, score.Player, score.Score, score.Distance, score.BestCombo, int64(score.Seed), id,
	); err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

// SaveReplay stores a replay on its own, e.g. one imported from a share code.
func (s *Store) SaveReplay(r ReplayEntry) (int64, error) {
	return insertReplay(s.db, r)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertReplay(db execer, r ReplayEntry) (int64, error) {
	result, err := db.Exec(
		`INSERT INTO replays (game_id, player, mode, seed, score, distance, best_combo, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Player, r.Mode, int64(r.Seed), r.Score, r.Distance, r.BestCombo, r.Data,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending. ReplayID is 0 when the run's replay
// was never stored or has since been deleted.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT s.id, s.game_id, s.player, s.score, s.distance, s.best_combo, s.seed,
		        COALESCE(r.id, 0), s.created_at
		 FROM scores s
		 LEFT JOIN replays r ON r.id = s.replay_id
		 WHERE s.game_id = ?
		 ORDER BY s.score DESC, s.id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var seed int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.Score, &e.Distance, &e.BestCombo, &seed, &e.ReplayID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Seed = uint32(seed)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores and replays for the given game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM replays WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear replays: %w", err)
	}
	return nil
}

// Replay retrieves a replay by ID. Returns ErrNotFound if it does not exist.
func (s *Store) Replay(id int64) (ReplayEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, game_id, player, mode, seed, score, distance, best_combo, data, created_at
		 FROM replays
		 WHERE id = ?`,
		id,
	)
	r, err := scanReplay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ReplayEntry{}, fmt.Errorf("%w: replay %d", ErrNotFound, id)
	}
	if err != nil {
		return ReplayEntry{}, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return r, nil
}

// BestReplay returns the highest scoring replay for a game.
func (s *Store) BestReplay(gameID string) (ReplayEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, game_id, player, mode, seed, score, distance, best_combo, data, created_at
		 FROM replays
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT 1`,
		gameID,
	)
	r, err := scanReplay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ReplayEntry{}, fmt.Errorf("%w: no replays for %s", ErrNotFound, gameID)
	}
	if err != nil {
		return ReplayEntry{}, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return r, nil
}

// RecentReplays lists replays for a game, newest first, without their data.
func (s *Store) RecentReplays(gameID string, limit int) ([]ReplayEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, player, mode, seed, score, distance, best_combo, x'', created_at
		 FROM replays
		 WHERE game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var entries []ReplayEntry
	for rows.Next() {
		r, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// DeleteReplay removes a replay by ID.
func (s *Store) DeleteReplay(id int64) error {
	res, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: replay %d", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReplay(row scanner) (ReplayEntry, error) {
	var r ReplayEntry
	var seed int64
	var createdAt any
	err := row.Scan(&r.ID, &r.GameID, &r.Player, &r.Mode, &seed, &r.Score, &r.Distance, &r.BestCombo, &r.Data, &createdAt)
	if err != nil {
		return ReplayEntry{}, err
	}
	r.Seed = uint32(seed)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
