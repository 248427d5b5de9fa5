package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the local SQLite database holding assessment history and
// unsynced profile edits.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending migrations.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "careernav.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// A single connection keeps :memory: databases alive and avoids "database is locked".
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies embedded SQL migrations that haven't been run yet.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Assessment history ---

// SaveAssessmentResult inserts r, assigning an ID and timestamp when unset.
// It returns the stored record. r.UserID scopes it to one account.
func (s *Store) SaveAssessmentResult(r AssessmentResult) (AssessmentResult, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC().Truncate(time.Second)
	_, err := s.db.Exec(`
		INSERT INTO assessment_results (id, user_id, created_at, learning_style, skill_level, recommended_approach, answers_json, results_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.CreatedAt.Format(time.RFC3339), r.LearningStyle, r.SkillLevel,
		r.RecommendedApproach, r.AnswersJSON, r.ResultsJSON,
	)
	if err != nil {
		return AssessmentResult{}, fmt.Errorf("saving assessment result: %w", err)
	}
	return r, nil
}

// GetAssessmentResult returns ErrNotFound when id does not exist or belongs
// to another user.
func (s *Store) GetAssessmentResult(userID int, id string) (AssessmentResult, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, created_at, learning_style, skill_level, recommended_approach, answers_json, results_json
		FROM assessment_results WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanAssessmentResult(row)
	if err == sql.ErrNoRows {
		return AssessmentResult{}, ErrNotFound
	}
	return r, err
}

// ListAssessmentResults returns up to limit of userID's results, newest
// first. A limit of zero or less returns all of them.
func (s *Store) ListAssessmentResults(userID, limit int) ([]AssessmentResult, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, created_at, learning_style, skill_level, recommended_approach, answers_json, results_json
		FROM assessment_results WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssessmentResult
	for rows.Next() {
		r, err := scanAssessmentResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAssessmentResult(userID int, id string) error {
	res, err := s.db.Exec(`DELETE FROM assessment_results WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssessmentResult(sc scanner) (AssessmentResult, error) {
	var r AssessmentResult
	var createdAt string
	if err := sc.Scan(&r.ID, &r.UserID, &createdAt, &r.LearningStyle, &r.SkillLevel, &r.RecommendedApproach, &r.AnswersJSON, &r.ResultsJSON); err != nil {
		return AssessmentResult{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return AssessmentResult{}, fmt.Errorf("parsing created_at for %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}

// --- Profile drafts (per user) ---

func (s *Store) SetProfileDraft(userID int, field, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO profile_drafts (user_id, field, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, field, value, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetProfileDrafts(userID int) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT field, value FROM profile_drafts WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// ClearProfileDraft removes a pending edit. Missing fields are not an error.
func (s *Store) ClearProfileDraft(userID int, field string) error {
	_, err := s.db.Exec(`DELETE FROM profile_drafts WHERE user_id = ? AND field = ?`, userID, field)
	return err
}
