package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trailmark/trailmark/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the alternative backend: the same progress document held in
// a relational schema, one row per subtopic. Selected when the config path
// ends in .db.
type SQLiteStore struct {
	path string
	db   *sql.DB
	doc  *models.ProgressDocument
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

// Schema intentionally avoids FK constraints: reset and import flows rewrite
// the whole document inside one transaction.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS global_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		user_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS roadmaps (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		last_accessed TEXT NOT NULL DEFAULT '',
		total_time_spent INTEGER NOT NULL DEFAULT 0,
		schedule_start_date TEXT,
		schedule_days_per_week INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS subtopic_progress (
		roadmap_id TEXT NOT NULL,
		phase_id TEXT NOT NULL,
		topic_id TEXT NOT NULL,
		subtopic_id TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		quiz_score INTEGER,
		quiz_completed_at TEXT,
		PRIMARY KEY (roadmap_id, phase_id, topic_id, subtopic_id)
	)`,
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	if err := s.open(); err != nil {
		return err
	}

	s.doc = models.NewProgressDocument()
	return s.Save()
}

func (s *SQLiteStore) Load() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'trailmark init' first")
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	return s.loadDocument()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) loadDocument() error {
	doc := models.NewProgressDocument()

	var userName string
	err := s.db.QueryRow(`SELECT user_name FROM global_settings WHERE id = 1`).Scan(&userName)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	doc.GlobalSettings.UserName = userName

	rows, err := s.db.Query(`SELECT id, started_at, last_accessed, total_time_spent,
		schedule_start_date, schedule_days_per_week FROM roadmaps`)
	if err != nil {
		return fmt.Errorf("failed to load roadmaps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var rp models.RoadmapProgress
		var schedStart sql.NullString
		var schedDays sql.NullInt64

		if err := rows.Scan(&id, &rp.StartedAt, &rp.LastAccessed, &rp.TotalTimeSpent,
			&schedStart, &schedDays); err != nil {
			return fmt.Errorf("failed to scan roadmap: %w", err)
		}

		if schedStart.Valid && schedDays.Valid {
			rp.Schedule = &models.StudySchedule{
				StartDate:        schedStart.String,
				StudyDaysPerWeek: int(schedDays.Int64),
			}
		}
		rp.Phases = make(map[string]models.PhaseProgress)
		doc.Roadmaps[id] = rp
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read roadmaps: %w", err)
	}

	subRows, err := s.db.Query(`SELECT roadmap_id, phase_id, topic_id, subtopic_id,
		completed, completed_at, quiz_score, quiz_completed_at FROM subtopic_progress`)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var roadmapID, phaseID, topicID, subtopicID string
		var completed int
		var completedAt, quizCompletedAt sql.NullString
		var quizScore sql.NullInt64

		if err := subRows.Scan(&roadmapID, &phaseID, &topicID, &subtopicID,
			&completed, &completedAt, &quizScore, &quizCompletedAt); err != nil {
			return fmt.Errorf("failed to scan progress: %w", err)
		}

		sp := models.SubtopicProgress{Completed: completed != 0}
		if completedAt.Valid {
			v := completedAt.String
			sp.CompletedAt = &v
		}
		if quizScore.Valid {
			v := int(quizScore.Int64)
			sp.QuizScore = &v
		}
		if quizCompletedAt.Valid {
			v := quizCompletedAt.String
			sp.QuizCompletedAt = &v
		}

		// Rows for roadmaps missing from the roadmaps table are tolerated
		// and get a bare entry.
		if _, ok := doc.Roadmaps[roadmapID]; !ok {
			doc.Roadmaps[roadmapID] = models.RoadmapProgress{
				Phases: make(map[string]models.PhaseProgress),
			}
		}
		doc.SetSubtopic(roadmapID, phaseID, topicID, subtopicID, sp)
	}
	if err := subRows.Err(); err != nil {
		return fmt.Errorf("failed to read progress: %w", err)
	}

	s.doc = doc
	return nil
}

func (s *SQLiteStore) Document() *models.ProgressDocument {
	return s.doc
}

// Save rewrites the whole document in one transaction. The document is small
// (a few hundred leaves at most), so wipe-and-reinsert stays cheap and keeps
// both backends behaviorally identical.
func (s *SQLiteStore) Save() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	if s.db == nil {
		return fmt.Errorf("database not open")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM schema_version`,
		`DELETE FROM global_settings`,
		`DELETE FROM roadmaps`,
		`DELETE FROM subtopic_progress`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear storage: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, s.doc.Version); err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO global_settings (id, user_name) VALUES (1, ?)`,
		s.doc.GlobalSettings.UserName); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	for roadmapID, rp := range s.doc.Roadmaps {
		var schedStart, schedDays interface{}
		if rp.Schedule != nil {
			schedStart = rp.Schedule.StartDate
			schedDays = rp.Schedule.StudyDaysPerWeek
		}
		if _, err := tx.Exec(`INSERT INTO roadmaps (id, started_at, last_accessed,
			total_time_spent, schedule_start_date, schedule_days_per_week)
			VALUES (?, ?, ?, ?, ?, ?)`,
			roadmapID, rp.StartedAt, rp.LastAccessed, rp.TotalTimeSpent,
			schedStart, schedDays); err != nil {
			return fmt.Errorf("failed to write roadmap %s: %w", roadmapID, err)
		}

		for phaseID, pp := range rp.Phases {
			for topicID, tp := range pp.Topics {
				for subtopicID, sp := range tp.Subtopics {
					completed := 0
					if sp.Completed {
						completed = 1
					}
					var completedAt, quizScore, quizCompletedAt interface{}
					if sp.CompletedAt != nil {
						completedAt = *sp.CompletedAt
					}
					if sp.QuizScore != nil {
						quizScore = *sp.QuizScore
					}
					if sp.QuizCompletedAt != nil {
						quizCompletedAt = *sp.QuizCompletedAt
					}
					if _, err := tx.Exec(`INSERT INTO subtopic_progress (roadmap_id,
						phase_id, topic_id, subtopic_id, completed, completed_at,
						quiz_score, quiz_completed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
						roadmapID, phaseID, topicID, subtopicID,
						completed, completedAt, quizScore, quizCompletedAt); err != nil {
						return fmt.Errorf("failed to write progress: %w", err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Replace(doc *models.ProgressDocument) error {
	if doc == nil {
		return fmt.Errorf("cannot replace storage with a nil document")
	}
	doc.Normalize()
	s.doc = doc
	return s.Save()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB exposes the underlying connection for diagnostics.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
