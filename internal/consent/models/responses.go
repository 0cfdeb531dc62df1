package models

// StateResponse reports the current consent state for pure read endpoints and
// as the result of a successful save.
type StateResponse struct {
	HasConsent    bool              `json:"has_consent"`
	IsValid       bool              `json:"is_valid"`
	ConsentID     string            `json:"consent_id,omitempty"`
	PolicyVersion string            `json:"policy_version"`
	Categories    map[Category]bool `json:"categories"`
	State         State             `json:"state"`
}

// SaveResponse is returned by POST /consent. Reload tells the client runtime
// whether previously blocked scripts need a page reload to execute in their
// normal position.
type SaveResponse struct {
	StateResponse
	Reload bool `json:"reload"`
}
