package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"swissvote/internal/domain"
)

// SQLiteMetadataStore implements port.MetadataStore on a local SQLite
// database. Initiative records are denormalized; list-valued fields are
// stored as JSON columns.
type SQLiteMetadataStore struct {
	db *sql.DB
}

const metadataSchema = `
CREATE TABLE IF NOT EXISTS initiatives (
	vote_id             TEXT PRIMARY KEY,
	official_number     TEXT,
	official_title      TEXT,
	keyword             TEXT,
	vote_date           TEXT,
	legal_form          TEXT,
	policy_area         TEXT,
	council_position    TEXT,
	parliament_position TEXT,
	party_positions     TEXT,
	other_positions     TEXT,
	details_url         TEXT,
	brochure_pdf        TEXT,
	brochure_texts      TEXT,
	updated_at          TEXT
);

CREATE TABLE IF NOT EXISTS query_logs (
	id            TEXT PRIMARY KEY,
	query_text    TEXT NOT NULL,
	language      TEXT,
	vote_ids      TEXT,
	chunk_count   INTEGER,
	duration_ms   INTEGER,
	success       INTEGER,
	error_message TEXT,
	created_at    TEXT
);
`

// NewSQLiteMetadataStore opens (or creates) the metadata database.
func NewSQLiteMetadataStore(path string) (*SQLiteMetadataStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening metadata database: %w", err)
	}

	if _, err := db.Exec(metadataSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating metadata schema: %w", err)
	}

	return &SQLiteMetadataStore{db: db}, nil
}

func (s *SQLiteMetadataStore) Close() error {
	return s.db.Close()
}

// PutInitiative inserts or updates an initiative record by vote_id.
func (s *SQLiteMetadataStore) PutInitiative(ctx context.Context, ini domain.Initiative) error {
	if ini.VoteID == "" {
		return fmt.Errorf("initiative has empty vote_id")
	}

	partyPositions, err := json.Marshal(ini.PartyPositions)
	if err != nil {
		return fmt.Errorf("marshaling party positions: %w", err)
	}
	otherPositions, err := json.Marshal(ini.OtherPositions)
	if err != nil {
		return fmt.Errorf("marshaling other positions: %w", err)
	}
	brochureTexts, err := json.Marshal(ini.BrochureTexts)
	if err != nil {
		return fmt.Errorf("marshaling brochure texts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO initiatives (
			vote_id, official_number, official_title, keyword, vote_date,
			legal_form, policy_area, council_position, parliament_position,
			party_positions, other_positions, details_url, brochure_pdf,
			brochure_texts, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(vote_id) DO UPDATE SET
			official_number     = excluded.official_number,
			official_title      = excluded.official_title,
			keyword             = excluded.keyword,
			vote_date           = excluded.vote_date,
			legal_form          = excluded.legal_form,
			policy_area         = excluded.policy_area,
			council_position    = excluded.council_position,
			parliament_position = excluded.parliament_position,
			party_positions     = excluded.party_positions,
			other_positions     = excluded.other_positions,
			details_url         = excluded.details_url,
			brochure_pdf        = excluded.brochure_pdf,
			brochure_texts      = excluded.brochure_texts,
			updated_at          = excluded.updated_at`,
		ini.VoteID, ini.OfficialNumber, ini.OfficialTitle, ini.Keyword, ini.VoteDate,
		ini.LegalForm, ini.PolicyArea, ini.CouncilPosition, ini.ParliamentPosition,
		string(partyPositions), string(otherPositions), ini.DetailsURL, ini.BrochurePDF,
		string(brochureTexts), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting initiative %s: %w", ini.VoteID, err)
	}

	return nil
}

const initiativeColumns = `vote_id, official_number, official_title, keyword, vote_date,
	legal_form, policy_area, council_position, parliament_position,
	party_positions, other_positions, details_url, brochure_pdf,
	brochure_texts, updated_at`

// GetInitiative looks up a single record; a missing id is (zero, false, nil).
func (s *SQLiteMetadataStore) GetInitiative(ctx context.Context, voteID string) (domain.Initiative, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+initiativeColumns+` FROM initiatives WHERE vote_id = ?`, voteID)

	ini, err := scanInitiative(row)
	if err == sql.ErrNoRows {
		return domain.Initiative{}, false, nil
	}
	if err != nil {
		return domain.Initiative{}, false, fmt.Errorf("querying initiative %s: %w", voteID, err)
	}

	return ini, true, nil
}

// ListInitiatives returns all stored initiatives ordered by vote date.
func (s *SQLiteMetadataStore) ListInitiatives(ctx context.Context) ([]domain.Initiative, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+initiativeColumns+` FROM initiatives ORDER BY vote_date, vote_id`)
	if err != nil {
		return nil, fmt.Errorf("listing initiatives: %w", err)
	}
	defer rows.Close()

	return collectInitiatives(rows)
}

// SearchInitiatives matches the keyword against titles and policy area.
func (s *SQLiteMetadataStore) SearchInitiatives(ctx context.Context, keyword string, limit int) ([]domain.Initiative, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + strings.TrimSpace(keyword) + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+initiativeColumns+` FROM initiatives
		 WHERE official_title LIKE ? OR keyword LIKE ? OR policy_area LIKE ?
		 ORDER BY vote_date, vote_id LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching initiatives: %w", err)
	}
	defer rows.Close()

	return collectInitiatives(rows)
}

// LogQuery writes one analytics row.
func (s *SQLiteMetadataStore) LogQuery(ctx context.Context, entry domain.QueryLogEntry) error {
	voteIDs, err := json.Marshal(entry.VoteIDs)
	if err != nil {
		return fmt.Errorf("marshaling vote ids: %w", err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO query_logs (id, query_text, language, vote_ids, chunk_count,
			duration_ms, success, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Query, entry.Language, string(voteIDs), entry.ChunkCount,
		entry.DurationMS, boolToInt(entry.Success), entry.ErrorMessage,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("logging query: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInitiative(row rowScanner) (domain.Initiative, error) {
	var ini domain.Initiative
	var partyPositions, otherPositions, brochureTexts, updatedAt string

	err := row.Scan(
		&ini.VoteID, &ini.OfficialNumber, &ini.OfficialTitle, &ini.Keyword, &ini.VoteDate,
		&ini.LegalForm, &ini.PolicyArea, &ini.CouncilPosition, &ini.ParliamentPosition,
		&partyPositions, &otherPositions, &ini.DetailsURL, &ini.BrochurePDF,
		&brochureTexts, &updatedAt,
	)
	if err != nil {
		return domain.Initiative{}, err
	}

	if partyPositions != "" {
		if err := json.Unmarshal([]byte(partyPositions), &ini.PartyPositions); err != nil {
			return domain.Initiative{}, fmt.Errorf("unmarshaling party positions: %w", err)
		}
	}
	if otherPositions != "" {
		if err := json.Unmarshal([]byte(otherPositions), &ini.OtherPositions); err != nil {
			return domain.Initiative{}, fmt.Errorf("unmarshaling other positions: %w", err)
		}
	}
	if brochureTexts != "" {
		if err := json.Unmarshal([]byte(brochureTexts), &ini.BrochureTexts); err != nil {
			return domain.Initiative{}, fmt.Errorf("unmarshaling brochure texts: %w", err)
		}
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		ini.UpdatedAt = t
	}

	return ini, nil
}

func collectInitiatives(rows *sql.Rows) ([]domain.Initiative, error) {
	var initiatives []domain.Initiative
	for rows.Next() {
		ini, err := scanInitiative(rows)
		if err != nil {
			return nil, err
		}
		initiatives = append(initiatives, ini)
	}
	return initiatives, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
