// Package model defines the domain records served by the API. JSON tags
// follow the client contract (camelCase, optional fields omitted).
package model

// SchemaVersion identifies the persisted schema generation.
const SchemaVersion = 1

// Member is a team member who can be assigned to topics.
type Member struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email,omitempty"`
	Active      bool     `json:"active"`
	Tags        []string `json:"tags,omitempty"`
	Color       string   `json:"color,omitempty"`
	UpdatedAt   string   `json:"updatedAt"`
	// Version is the optimistic concurrency token. It starts at 1 and
	// increments by exactly 1 per successful write.
	Version int64 `json:"version"`
}

// Tag is a reusable label attached to topics. Tag keywords feed the
// search index as a derived field of every topic carrying the tag.
type Tag struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	SearchKeywords []string `json:"searchKeywords,omitempty"`
	Hinweise       string   `json:"hinweise,omitempty"`
	CopyPasteText  string   `json:"copyPasteText,omitempty"`
	Color          string   `json:"color,omitempty"`
	IsSuperTag     *bool    `json:"isSuperTag,omitempty"`
	IsGvplTag      *bool    `json:"isGvplTag,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	ModifiedAt     string   `json:"modifiedAt"`
	CreatedBy      string   `json:"createdBy"`
	Version        int64    `json:"version"`
}

// TShirtSize classifies topic effort.
type TShirtSize string

// Valid t-shirt sizes, smallest to largest.
const (
	SizeXXS TShirtSize = "XXS"
	SizeXS  TShirtSize = "XS"
	SizeS   TShirtSize = "S"
	SizeM   TShirtSize = "M"
	SizeL   TShirtSize = "L"
	SizeXL  TShirtSize = "XL"
	SizeXXL TShirtSize = "XXL"
)

// Valid reports whether s is a known size.
func (s TShirtSize) Valid() bool {
	switch s {
	case SizeXXS, SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

// Validity is the time window during which a topic applies.
type Validity struct {
	AlwaysValid bool   `json:"alwaysValid"`
	ValidFrom   string `json:"validFrom,omitempty"`
	ValidTo     string `json:"validTo,omitempty"`
}

// DefaultValidity returns the "always valid" window.
func DefaultValidity() Validity {
	return Validity{AlwaysValid: true}
}

// Raci assigns responsibility for a topic: one primary responsible
// member, up to two secondary responsibles, and consulted/informed sets.
type Raci struct {
	R1MemberID string   `json:"r1MemberId"`
	R2MemberID string   `json:"r2MemberId,omitempty"`
	R3MemberID string   `json:"r3MemberId,omitempty"`
	CMemberIDs []string `json:"cMemberIds"`
	IMemberIDs []string `json:"iMemberIds"`
}

// Topic is a responsibility assignment record.
type Topic struct {
	ID                string     `json:"id"`
	Header            string     `json:"header"`
	Description       string     `json:"description,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	SearchKeywords    []string   `json:"searchKeywords,omitempty"`
	Validity          Validity   `json:"validity"`
	Notes             string     `json:"notes,omitempty"`
	Raci              Raci       `json:"raci"`
	UpdatedAt         string     `json:"updatedAt"`
	Priority          *int       `json:"priority,omitempty"`
	HasFileNumber     *bool      `json:"hasFileNumber,omitempty"`
	FileNumber        string     `json:"fileNumber,omitempty"`
	HasSharedFilePath *bool      `json:"hasSharedFilePath,omitempty"`
	SharedFilePath    string     `json:"sharedFilePath,omitempty"`
	Size              TShirtSize `json:"size,omitempty"`
	Version           int64      `json:"version"`
}

// RevisionInfo reports the global change counter for client-side change
// detection.
type RevisionInfo struct {
	RevisionID  int64  `json:"revisionId"`
	GeneratedAt string `json:"generatedAt"`
}

// Datastore is an on-demand snapshot of everything the store holds.
type Datastore struct {
	SchemaVersion int      `json:"schemaVersion"`
	GeneratedAt   string   `json:"generatedAt"`
	RevisionID    int64    `json:"revisionId"`
	Members       []Member `json:"members"`
	Topics        []Topic  `json:"topics"`
	Tags          []Tag    `json:"tags"`
}
