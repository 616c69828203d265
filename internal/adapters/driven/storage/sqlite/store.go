package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/brdify/internal/adapters/driven/storage"
	"github.com/custodia-labs/brdify/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "brdify.db"

// Store owns the SQLite connection and hands out store interfaces backed by it.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.brdify.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".brdify")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// BrdStore returns a BrdStore interface backed by this store.
func (s *Store) BrdStore() driven.BrdStore {
	return &brdStore{store: s, now: time.Now}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== BRD Store ====================

// brdStore implements driven.BrdStore.
type brdStore struct {
	store *Store
	now   func() time.Time
}

var _ driven.BrdStore = (*brdStore)(nil)

// Save writes the document and replaces every owned list in one transaction.
func (s *brdStore) Save(ctx context.Context, doc *domain.BrdDocument) (*domain.BrdDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("save brd: %w", domain.ErrInvalidInput)
	}

	stored := doc.Clone()
	storage.AssignIDs(stored, s.now().UTC())

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Keep the original creation time on re-save.
	var createdAt sql.NullTime
	err = tx.QueryRowContext(ctx, "SELECT created_at FROM brd_documents WHERE id = ?", stored.ID).Scan(&createdAt)
	switch {
	case err == nil:
		if createdAt.Valid {
			stored.CreatedAt = createdAt.Time
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("reading brd: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO brd_documents (id, title, status, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			summary = excluded.summary,
			updated_at = excluded.updated_at
	`, stored.ID, stored.Title, string(stored.Status), stored.Summary, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving brd: %w", err)
	}

	for _, table := range ownedTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE brd_id = ?", stored.ID); err != nil {
			return nil, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	src := stored.Source
	_, err = tx.ExecContext(ctx, `
		INSERT INTO source_data (id, brd_id, content, normalised, source_type, uri, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, src.ID, stored.ID, src.Content, src.Normalised, string(src.SourceType), src.URI, src.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("saving source data: %w", err)
	}

	if err := insertRequirements(ctx, tx, stored); err != nil {
		return nil, err
	}
	if err := insertDecisions(ctx, tx, stored); err != nil {
		return nil, err
	}
	if err := insertStakeholders(ctx, tx, stored); err != nil {
		return nil, err
	}
	if err := insertRisks(ctx, tx, stored); err != nil {
		return nil, err
	}
	if err := insertTimeline(ctx, tx, stored); err != nil {
		return nil, err
	}
	if err := insertRTM(ctx, tx, stored); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return stored, nil
}

// Get retrieves a document with all its lists by ID.
func (s *brdStore) Get(ctx context.Context, id string) (*domain.BrdDocument, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, status, summary, created_at, updated_at
		FROM brd_documents WHERE id = ?
	`, id)

	var doc domain.BrdDocument
	var status string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&doc.ID, &doc.Title, &status, &doc.Summary, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning brd: %w", err)
	}
	doc.Status = domain.BrdStatus(status)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	if err := s.loadSource(ctx, &doc); err != nil {
		return nil, err
	}
	if err := s.loadLists(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns summaries of all documents, newest first.
func (s *brdStore) List(ctx context.Context) ([]domain.BrdSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT b.id, b.title, b.status, COALESCE(sd.source_type, ''),
			(SELECT COUNT(*) FROM requirements r WHERE r.brd_id = b.id),
			b.created_at, b.updated_at
		FROM brd_documents b
		LEFT JOIN source_data sd ON sd.brd_id = b.id
		ORDER BY b.created_at DESC, b.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying brds: %w", err)
	}
	defer rows.Close()

	summaries := []domain.BrdSummary{}
	for rows.Next() {
		var sum domain.BrdSummary
		var status string
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&sum.ID, &sum.Title, &status, &sum.SourceType,
			&sum.RequirementCount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning brd: %w", err)
		}
		sum.Status = domain.BrdStatus(status)
		if createdAt.Valid {
			sum.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			sum.UpdatedAt = updatedAt.Time
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Delete removes a document. Owned rows go with it through ON DELETE CASCADE.
func (s *brdStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM brd_documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting brd: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting brd: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ownedTables lists the tables cleared on every save.
var ownedTables = []string{
	"source_data", "requirements", "decisions", "stakeholders",
	"risks", "timeline_entries", "rtm_entries",
}

func insertRequirements(ctx context.Context, tx *sql.Tx, doc *domain.BrdDocument) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO requirements (id, brd_id, position, entity_key, description, type, priority, source_quote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range doc.Requirements {
		if _, err := stmt.ExecContext(ctx, r.ID, doc.ID, i, r.Key, r.Description,
			r.Type, r.Priority, r.SourceQuote); err != nil {
			return fmt.Errorf("saving requirement: %w", err)
		}
	}
	return nil
}

func insertDecisions(ctx context.Context, tx *sql.Tx, doc *domain.BrdDocument) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decisions (id, brd_id, position, entity_key, description, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, d := range doc.Decisions {
		if _, err := stmt.ExecContext(ctx, d.ID, doc.ID, i, d.Key, d.Description, d.Status); err != nil {
			return fmt.Errorf("saving decision: %w", err)
		}
	}
	return nil
}

func insertStakeholders(ctx context.Context, tx *sql.Tx, doc *domain.BrdDocument) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stakeholders (id, brd_id, position, entity_key, name, role, contact_info)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, sh := range doc.Stakeholders {
		if _, err := stmt.ExecContext(ctx, sh.ID, doc.ID, i, sh.Key, sh.Name, sh.Role, sh.ContactInfo); err != nil {
			return fmt.Errorf("saving stakeholder: %w", err)
		}
	}
	return nil
}

func insertRisks(ctx context.Context, tx *sql.Tx, doc *domain.BrdDocument) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO risks (id, brd_id, position, entity_key, description, probability, impact, mitigation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range doc.Risks {
		if _, err := stmt.ExecContext(ctx, r.ID, doc.ID, i, r.Key, r.Description,
			r.Probability, r.Impact, r.Mitigation); err != nil {
			return fmt.Errorf("saving risk: %w", err)
		}
	}
	return nil
}

func insertTimeline(ctx context.Context, tx *sql.Tx, doc *domain.BrdDocument) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timeline_entries (id, brd_id, position, entity_key, milestone, expected_date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range doc.Timeline {
		if _, err := stmt.ExecContext(ctx, t.ID, doc.ID, i, t.Key, t.Milestone,
			t.ExpectedDate, t.Description); err != nil {
			return fmt.Errorf("saving timeline entry: %w", err)
		}
	}
	return nil
}

func insertRTM(ctx context.Context, tx *sql.Tx, doc *domain.BrdDocument) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rtm_entries (id, brd_id, position, requirement_id, source_id, source_chunk,
			decision_id, risk_id, timeline_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range doc.RTM {
		if _, err := stmt.ExecContext(ctx, e.ID, doc.ID, i, e.RequirementID, e.SourceID,
			e.SourceChunk, e.DecisionID, e.RiskID, e.TimelineID); err != nil {
			return fmt.Errorf("saving rtm entry: %w", err)
		}
	}
	return nil
}

func (s *brdStore) loadSource(ctx context.Context, doc *domain.BrdDocument) error {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, content, normalised, source_type, uri, uploaded_at
		FROM source_data WHERE brd_id = ?
	`, doc.ID)

	var sourceType string
	var uploadedAt sql.NullTime
	err := row.Scan(&doc.Source.ID, &doc.Source.Content, &doc.Source.Normalised,
		&sourceType, &doc.Source.URI, &uploadedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("scanning source data: %w", err)
	}
	doc.Source.SourceType = domain.SourceType(sourceType)
	if uploadedAt.Valid {
		doc.Source.UploadedAt = uploadedAt.Time
	}
	return nil
}

// loadLists reads every owned list ordered by position.
func (s *brdStore) loadLists(ctx context.Context, doc *domain.BrdDocument) error {
	db := s.store.db

	err := queryRows(ctx, db, `
		SELECT id, entity_key, description, type, priority, source_quote
		FROM requirements WHERE brd_id = ? ORDER BY position
	`, doc.ID, func(rows *sql.Rows) error {
		var r domain.Requirement
		if err := rows.Scan(&r.ID, &r.Key, &r.Description, &r.Type, &r.Priority, &r.SourceQuote); err != nil {
			return err
		}
		doc.Requirements = append(doc.Requirements, r)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading requirements: %w", err)
	}

	err = queryRows(ctx, db, `
		SELECT id, entity_key, description, status
		FROM decisions WHERE brd_id = ? ORDER BY position
	`, doc.ID, func(rows *sql.Rows) error {
		var d domain.Decision
		if err := rows.Scan(&d.ID, &d.Key, &d.Description, &d.Status); err != nil {
			return err
		}
		doc.Decisions = append(doc.Decisions, d)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading decisions: %w", err)
	}

	err = queryRows(ctx, db, `
		SELECT id, entity_key, name, role, contact_info
		FROM stakeholders WHERE brd_id = ? ORDER BY position
	`, doc.ID, func(rows *sql.Rows) error {
		var sh domain.Stakeholder
		if err := rows.Scan(&sh.ID, &sh.Key, &sh.Name, &sh.Role, &sh.ContactInfo); err != nil {
			return err
		}
		doc.Stakeholders = append(doc.Stakeholders, sh)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading stakeholders: %w", err)
	}

	err = queryRows(ctx, db, `
		SELECT id, entity_key, description, probability, impact, mitigation
		FROM risks WHERE brd_id = ? ORDER BY position
	`, doc.ID, func(rows *sql.Rows) error {
		var r domain.Risk
		if err := rows.Scan(&r.ID, &r.Key, &r.Description, &r.Probability, &r.Impact, &r.Mitigation); err != nil {
			return err
		}
		doc.Risks = append(doc.Risks, r)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading risks: %w", err)
	}

	err = queryRows(ctx, db, `
		SELECT id, entity_key, milestone, expected_date, description
		FROM timeline_entries WHERE brd_id = ? ORDER BY position
	`, doc.ID, func(rows *sql.Rows) error {
		var t domain.TimelineEntry
		if err := rows.Scan(&t.ID, &t.Key, &t.Milestone, &t.ExpectedDate, &t.Description); err != nil {
			return err
		}
		doc.Timeline = append(doc.Timeline, t)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading timeline: %w", err)
	}

	err = queryRows(ctx, db, `
		SELECT id, requirement_id, source_id, source_chunk, decision_id, risk_id, timeline_id
		FROM rtm_entries WHERE brd_id = ? ORDER BY position
	`, doc.ID, func(rows *sql.Rows) error {
		var e domain.RtmEntry
		if err := rows.Scan(&e.ID, &e.RequirementID, &e.SourceID, &e.SourceChunk,
			&e.DecisionID, &e.RiskID, &e.TimelineID); err != nil {
			return err
		}
		doc.RTM = append(doc.RTM, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading rtm: %w", err)
	}
	return nil
}

func queryRows(ctx context.Context, db *sql.DB, query, brdID string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query, brdID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
