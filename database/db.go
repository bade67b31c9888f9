package database

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/korjavin/repotrivia/models"
	"github.com/korjavin/repotrivia/quiz"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the answer journal. It is written to for statistics only and is
// never read back to restore a session.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// QuestionCount is a question key with a count of answers
type QuestionCount struct {
	Type     string
	RepoName string
	Count    int
}

// New creates a new database connection and initializes tables
func New(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{conn: db, now: time.Now}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			catalog_size INTEGER NOT NULL,
			started_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_activity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			question_type TEXT NOT NULL,
			repo_name TEXT NOT NULL,
			answer_number INTEGER NOT NULL,
			correct BOOLEAN NOT NULL,
			timestamp INTEGER NOT NULL
		)
	`)
	return err
}

// Observe returns a session observer that journals every answer. Failures
// are logged and never reach the session.
func (db *DB) Observe() quiz.Observer {
	return func(e quiz.Event) {
		switch e.Kind {
		case quiz.EventPresented:
			if e.Summary.TotalAnswered > 0 {
				return
			}
			if err := db.SaveSession(e.SessionID, e.UserID, e.Summary.CatalogSize); err != nil {
				log.Printf("Error saving session %s: %v", e.SessionID, err)
			}
		case quiz.EventAnswered:
			activity := models.UserActivity{
				UserID:    e.UserID,
				SessionID: e.SessionID,
				Type:      e.Record.Question.Type,
				RepoName:  e.Record.Question.Repo.FullName,
				Answer:    e.Record.Chosen,
				Correct:   e.Record.Correct,
			}
			if err := db.SaveUserActivity(activity); err != nil {
				log.Printf("Error saving user activity for session %s: %v", e.SessionID, err)
			}
		}
	}
}

// SaveSession records the start of a session
func (db *DB) SaveSession(id string, userID int64, catalogSize int) error {
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO sessions (id, user_id, catalog_size, started_at) VALUES (?, ?, ?, ?)",
		id, userID, catalogSize, db.now().Unix(),
	)
	return err
}

// SaveUserActivity records user interaction with a question
func (db *DB) SaveUserActivity(a models.UserActivity) error {
	ts := a.Timestamp
	if ts == 0 {
		ts = db.now().Unix()
	}
	_, err := db.conn.Exec(
		`INSERT INTO user_activity (session_id, user_id, question_type, repo_name, answer_number, correct, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID, a.UserID, a.Type, a.RepoName, a.Answer, a.Correct, ts,
	)
	return err
}

// GetUserStats retrieves statistics about the user's answers across all sessions
func (db *DB) GetUserStats(userID int64) (correct int, incorrect int, err error) {
	err = db.conn.QueryRow(
		"SELECT COUNT(*) FROM user_activity WHERE user_id = ? AND correct = 1",
		userID,
	).Scan(&correct)
	if err != nil {
		return 0, 0, err
	}

	err = db.conn.QueryRow(
		"SELECT COUNT(*) FROM user_activity WHERE user_id = ? AND correct = 0",
		userID,
	).Scan(&incorrect)
	return correct, incorrect, err
}

// GetSessionCount returns how many sessions the user has started
func (db *DB) GetSessionCount(userID int64) (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM sessions WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

// GetMostFrequentIncorrectQuestions gets the questions most frequently answered incorrectly
func (db *DB) GetMostFrequentIncorrectQuestions(userID int64, limit int) ([]QuestionCount, error) {
	rows, err := db.conn.Query(`
		SELECT question_type, repo_name, COUNT(*) as count
		FROM user_activity
		WHERE user_id = ? AND correct = 0
		GROUP BY question_type, repo_name
		ORDER BY count DESC, repo_name ASC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []QuestionCount
	for rows.Next() {
		var qc QuestionCount
		if err := rows.Scan(&qc.Type, &qc.RepoName, &qc.Count); err != nil {
			return nil, err
		}
		result = append(result, qc)
	}

	return result, rows.Err()
}
