package models

// SaveConsentRequest is the body of POST /consent.
// Unknown category keys are dropped during normalization rather than rejected.
type SaveConsentRequest struct {
	Categories map[string]bool `json:"categories" validate:"required"`
	ActionType string          `json:"action_type" validate:"required,oneof=accept_all reject_all customize"`
	Token      string          `json:"token" validate:"required,notblank"`
}

// CategoryMap converts the raw request keys into the typed category map.
func (r *SaveConsentRequest) CategoryMap() map[Category]bool {
	out := make(map[Category]bool, len(r.Categories))
	for key, value := range r.Categories {
		out[Category(key)] = value
	}
	return out
}

// RevokeConsentRequest is the body of POST /consent/revoke.
type RevokeConsentRequest struct {
	Token string `json:"token" validate:"required,notblank"`
}
