package domain

import "time"

// Supported brochure languages, in fallback priority order.
var SupportedLanguages = []string{"de", "fr", "it"}

const DefaultLanguage = "de"

// IsSupportedLanguage reports whether code is one of the brochure languages.
func IsSupportedLanguage(code string) bool {
	for _, lang := range SupportedLanguages {
		if lang == code {
			return true
		}
	}
	return false
}

// Chunk is a bounded segment of a brochure text, the unit of retrieval.
// Key is deterministic for a given (vote, language, index) so that
// re-indexing upserts instead of duplicating.
type Chunk struct {
	VoteID   string
	Language string
	Index    int
	Text     string
	Key      string
}

// ChunkMetadata is the metadata attached to every indexed chunk. The
// retriever's language filter and the assembler's group-by-vote logic
// depend on these fields.
type ChunkMetadata struct {
	VoteID     string `json:"vote_id"`
	Language   string `json:"language"`
	ChunkIndex int    `json:"chunk_index"`
	Title      string `json:"initiative_title"`
}

// RetrievedContext is a single ranked retrieval hit.
type RetrievedContext struct {
	Text       string        `json:"text"`
	Metadata   ChunkMetadata `json:"metadata"`
	ChunkKey   string        `json:"chunk_key"`
	Similarity float64       `json:"similarity"`
	Distance   float64       `json:"distance"`
}

// Initiative is the full record of a federal popular vote as stored in
// the metadata store.
type Initiative struct {
	VoteID             string            `json:"vote_id"`
	OfficialNumber     string            `json:"official_number,omitempty"`
	OfficialTitle      string            `json:"offizieller_titel,omitempty"`
	Keyword            string            `json:"schlagwort,omitempty"`
	VoteDate           string            `json:"abstimmungsdatum,omitempty"`
	LegalForm          string            `json:"rechtsform,omitempty"`
	PolicyArea         string            `json:"politikbereich,omitempty"`
	CouncilPosition    string            `json:"position_bundesrat,omitempty"`
	ParliamentPosition string            `json:"position_parlament,omitempty"`
	PartyPositions     []string          `json:"parteiparolen,omitempty"`
	OtherPositions     []string          `json:"weitere_parolen,omitempty"`
	DetailsURL         string            `json:"details_url,omitempty"`
	BrochurePDF        string            `json:"abstimmungsbuechlein_pdf,omitempty"`
	BrochureTexts      map[string]string `json:"brochure_texts,omitempty"`
	UpdatedAt          time.Time         `json:"-"`
}

// DisplayTitle prefers the short keyword title over the official one.
func (i Initiative) DisplayTitle() string {
	if i.Keyword != "" {
		return i.Keyword
	}
	return i.OfficialTitle
}

// InitiativeMetadata is the denormalized snapshot returned by the
// enricher, pulled fresh from the metadata store on every query.
type InitiativeMetadata struct {
	VoteID          string   `json:"vote_id"`
	Title           string   `json:"title"`
	Date            string   `json:"date"`
	PolicyArea      string   `json:"policy_area"`
	CouncilPosition string   `json:"council_position"`
	PartyPositions  []string `json:"party_positions"`
	DetailsURL      string   `json:"details_url"`
	DocumentURL     string   `json:"document_url"`
}

// RagResult is the complete outcome of one retrieval query. It is owned
// by the caller and never persisted or mutated after construction.
type RagResult struct {
	Query              string                        `json:"query"`
	Language           string                        `json:"language"`
	Contexts           []RetrievedContext            `json:"contexts"`
	FormattedContext   string                        `json:"formatted_context"`
	InitiativeMetadata map[string]InitiativeMetadata `json:"initiative_metadata"`
	ContextCount       int                           `json:"context_count"`
}

// VoteIDs returns the source vote ids in first-seen order.
func (r RagResult) VoteIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ctx := range r.Contexts {
		if !seen[ctx.Metadata.VoteID] {
			seen[ctx.Metadata.VoteID] = true
			ids = append(ids, ctx.Metadata.VoteID)
		}
	}
	return ids
}

// QueryLogEntry is a best-effort analytics record of one user query.
type QueryLogEntry struct {
	ID           string
	Query        string
	Language     string
	VoteIDs      []string
	ChunkCount   int
	DurationMS   int64
	Success      bool
	ErrorMessage string
	CreatedAt    time.Time
}
