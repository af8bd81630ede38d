package storage

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore(ScoreEntry{GameID: "tunnel", Score: 42}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("tunnel")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 42 {
		t.Errorf("HighScore() = %d, expected 42 after reopen", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, e := range []ScoreEntry{
		{GameID: "tunnel", Score: 100, Distance: 90.5, BestCombo: 2, Seed: 7},
		{GameID: "tunnel", Score: 50},
		{GameID: "tunnel", Score: 200, Player: "ada", Seed: 4294967295},
		{GameID: "tunnel_daily", Score: 500},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("tunnel", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not sorted: %d, %d, %d", scores[0].Score, scores[1].Score, scores[2].Score)
	}
	if scores[0].Player != "ada" {
		t.Errorf("Player = %q, expected ada", scores[0].Player)
	}
	if scores[0].Seed != 4294967295 {
		t.Errorf("Seed = %d, expected max uint32 to round-trip", scores[0].Seed)
	}
	if scores[1].Distance != 90.5 || scores[1].BestCombo != 2 {
		t.Errorf("stats = %v/%d, expected 90.5/2", scores[1].Distance, scores[1].BestCombo)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}

	daily, err := store.TopScores("tunnel_daily", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(daily) != 1 || daily[0].Score != 500 {
		t.Errorf("daily scores = %+v", daily)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		if _, err := store.SaveScore(ScoreEntry{GameID: "tunnel", Score: i * 10}); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("tunnel", 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(scores))
	}
	if scores[0].Score != 190 {
		t.Errorf("Expected top score 190, got %d", scores[0].Score)
	}
}

func TestStoreHighScoreEmpty(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("tunnel")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty game, got %d", high)
	}
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	data := []byte(`{"v":1}`)
	id, err := store.SaveRun(
		ScoreEntry{GameID: "tunnel_hardcore", Score: 321, Distance: 300.25, BestCombo: 3, Seed: 9},
		ReplayEntry{GameID: "tunnel_hardcore", Mode: "hardcore", Seed: 9, Score: 321, Distance: 300.25, BestCombo: 3, Data: data},
	)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	high, err := store.HighScore("tunnel_hardcore")
	if err != nil || high != 321 {
		t.Errorf("HighScore() = %d, %v; expected 321", high, err)
	}

	r, err := store.Replay(id)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if r.Mode != "hardcore" || r.Seed != 9 || r.Score != 321 || r.Distance != 300.25 {
		t.Errorf("Replay() = %+v", r)
	}
	if !bytes.Equal(r.Data, data) {
		t.Errorf("Data = %q, expected %q", r.Data, data)
	}

	scores, err := store.TopScores("tunnel_hardcore", 10)
	if err != nil || len(scores) != 1 {
		t.Fatalf("TopScores() = %+v, %v", scores, err)
	}
	if scores[0].ReplayID != id || scores[0].Seed != 9 {
		t.Errorf("TopScores()[0] = %+v, expected replay %d and seed 9", scores[0], id)
	}
}

func TestStoreScoreReplayLink(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveScore(ScoreEntry{GameID: "tunnel", Score: 50}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	id, err := store.SaveRun(
		ScoreEntry{GameID: "tunnel", Score: 80},
		ReplayEntry{GameID: "tunnel", Mode: "classic", Score: 80, Data: []byte("x")},
	)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	scores, _ := store.TopScores("tunnel", 10)
	if len(scores) != 2 || scores[0].ReplayID != id || scores[1].ReplayID != 0 {
		t.Fatalf("TopScores() = %+v, expected only the run to link replay %d", scores, id)
	}

	if err := store.DeleteReplay(id); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	scores, _ = store.TopScores("tunnel", 10)
	if len(scores) != 2 || scores[0].ReplayID != 0 {
		t.Errorf("TopScores() after delete = %+v, expected no replay link", scores)
	}
}

func TestStoreMigratesScoresWithoutReplayColumn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			best_combo INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO scores (game_id, score, seed) VALUES ('tunnel', 75, 7);
	`)
	db.Close()
	if err != nil {
		t.Fatalf("creating old schema failed: %v", err)
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	scores, err := store.TopScores("tunnel", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 75 || scores[0].ReplayID != 0 {
		t.Errorf("TopScores() = %+v, expected the old row without a replay", scores)
	}

	if _, err := store.SaveRun(ScoreEntry{GameID: "tunnel", Score: 90}, ReplayEntry{GameID: "tunnel", Mode: "classic", Data: []byte("x")}); err != nil {
		t.Errorf("SaveRun() on migrated database failed: %v", err)
	}
}

func TestStoreReplayQueries(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{10, 70, 40} {
		if _, err := store.SaveReplay(ReplayEntry{GameID: "tunnel", Mode: "classic", Score: score, Data: []byte("x")}); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}

	best, err := store.BestReplay("tunnel")
	if err != nil {
		t.Fatalf("BestReplay() failed: %v", err)
	}
	if best.Score != 70 {
		t.Errorf("BestReplay().Score = %d, expected 70", best.Score)
	}

	recent, err := store.RecentReplays("tunnel", 2)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 40 || recent[1].Score != 70 {
		t.Errorf("RecentReplays() = %+v, expected newest first", recent)
	}
	if len(recent[0].Data) != 0 {
		t.Error("RecentReplays should not load replay data")
	}

	if err := store.DeleteReplay(best.ID); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	if _, err := store.Replay(best.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replay() after delete = %v, expected ErrNotFound", err)
	}
	if err := store.DeleteReplay(best.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteReplay() = %v, expected ErrNotFound", err)
	}

	if _, err := store.BestReplay("tunnel_daily"); !errors.Is(err, ErrNotFound) {
		t.Errorf("BestReplay() on empty game = %v, expected ErrNotFound", err)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{GameID: "tunnel", Score: 100})
	store.SaveScore(ScoreEntry{GameID: "tunnel_daily", Score: 200})
	store.SaveReplay(ReplayEntry{GameID: "tunnel", Mode: "classic", Data: []byte("x")})

	if err := store.ClearScores("tunnel"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores("tunnel", 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if _, err := store.BestReplay("tunnel"); !errors.Is(err, ErrNotFound) {
		t.Error("replays should be cleared with scores")
	}

	daily, _ := store.TopScores("tunnel_daily", 10)
	if len(daily) != 1 {
		t.Errorf("Other games should be untouched, got %d", len(daily))
	}
}
