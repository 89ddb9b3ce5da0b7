package model

// Update requests use pointer fields so an absent field keeps the stored
// value (shallow merge). Slice fields use nil for "unchanged".

// CreateMemberRequest is the payload for creating a member.
type CreateMemberRequest struct {
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Color       string   `json:"color,omitempty"`
}

// UpdateMemberRequest is the payload for a partial member update.
type UpdateMemberRequest struct {
	DisplayName *string  `json:"displayName,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Color       *string  `json:"color,omitempty"`
	// ExpectedVersion, when set, must equal the stored version or the
	// update fails with a version mismatch.
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

// CreateTagRequest is the payload for creating a tag.
type CreateTagRequest struct {
	Name           string   `json:"name"`
	SearchKeywords []string `json:"searchKeywords,omitempty"`
	Hinweise       string   `json:"hinweise,omitempty"`
	CopyPasteText  string   `json:"copyPasteText,omitempty"`
	Color          string   `json:"color,omitempty"`
	IsSuperTag     *bool    `json:"isSuperTag,omitempty"`
	IsGvplTag      *bool    `json:"isGvplTag,omitempty"`
	CreatedBy      string   `json:"createdBy"`
}

// UpdateTagRequest is the payload for a partial tag update. CreatedAt and
// CreatedBy are immutable and cannot be changed here.
type UpdateTagRequest struct {
	Name            *string  `json:"name,omitempty"`
	SearchKeywords  []string `json:"searchKeywords,omitempty"`
	Hinweise        *string  `json:"hinweise,omitempty"`
	CopyPasteText   *string  `json:"copyPasteText,omitempty"`
	Color           *string  `json:"color,omitempty"`
	IsSuperTag      *bool    `json:"isSuperTag,omitempty"`
	IsGvplTag       *bool    `json:"isGvplTag,omitempty"`
	ExpectedVersion *int64   `json:"expectedVersion,omitempty"`
}

// CreateTopicRequest is the payload for creating a topic.
type CreateTopicRequest struct {
	Header            string     `json:"header"`
	Description       string     `json:"description,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	SearchKeywords    []string   `json:"searchKeywords,omitempty"`
	Validity          *Validity  `json:"validity,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	Raci              Raci       `json:"raci"`
	Priority          *int       `json:"priority,omitempty"`
	HasFileNumber     *bool      `json:"hasFileNumber,omitempty"`
	FileNumber        string     `json:"fileNumber,omitempty"`
	HasSharedFilePath *bool      `json:"hasSharedFilePath,omitempty"`
	SharedFilePath    string     `json:"sharedFilePath,omitempty"`
	Size              TShirtSize `json:"size,omitempty"`
}

// UpdateTopicRequest is the payload for a partial topic update.
type UpdateTopicRequest struct {
	Header            *string    `json:"header,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	SearchKeywords    []string   `json:"searchKeywords,omitempty"`
	Validity          *Validity  `json:"validity,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	Raci              *Raci      `json:"raci,omitempty"`
	Priority          *int       `json:"priority,omitempty"`
	HasFileNumber     *bool      `json:"hasFileNumber,omitempty"`
	FileNumber        *string    `json:"fileNumber,omitempty"`
	HasSharedFilePath *bool      `json:"hasSharedFilePath,omitempty"`
	SharedFilePath    *string    `json:"sharedFilePath,omitempty"`
	Size              TShirtSize `json:"size,omitempty"`
	ExpectedVersion   *int64     `json:"expectedVersion,omitempty"`
}

// BatchTopicUpdate is one entry of a batch update.
type BatchTopicUpdate struct {
	TopicID string             `json:"topicId"`
	Changes UpdateTopicRequest `json:"changes"`
}

// BatchUpdateTopicsRequest applies several topic updates atomically.
type BatchUpdateTopicsRequest struct {
	Updates []BatchTopicUpdate `json:"updates"`
}
