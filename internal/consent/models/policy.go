package models

// Policy is an immutable per-request configuration snapshot. Components
// receive it at construction; "invalidation" means constructing a new
// snapshot, never mutating a shared one.
type Policy struct {
	Version      string
	DurationDays int
	CookieName   string
	CookiePath   string
	CookieDomain string

	Categories      []CategoryInfo
	DeclaredCookies []DeclaredCookie
}

// CategoryInfo is the display metadata for one category, used by the public
// config endpoint and the disclosure table.
type CategoryInfo struct {
	Key         Category `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
}

// DeclaredCookie describes one cookie for the public disclosure table. The
// gating engine also consumes Provider as a host pattern mapping to Category.
type DeclaredCookie struct {
	Name     string   `json:"name"`
	Provider string   `json:"provider"`
	Purpose  string   `json:"purpose"`
	Duration string   `json:"duration"`
	Category Category `json:"category"`
	Type     string   `json:"type"`
}

// DefaultCategories returns the built-in category metadata.
func DefaultCategories() []CategoryInfo {
	return []CategoryInfo{
		{Key: CategoryNecessary, Name: "Necessary", Description: "Essential cookies required for the website to function.", Required: true},
		{Key: CategoryFunctional, Name: "Functional", Description: "These cookies enable enhanced functionality and personalization.", Required: false},
		{Key: CategoryAnalytics, Name: "Analytics", Description: "These cookies help us understand how visitors interact with our website.", Required: false},
		{Key: CategoryMarketing, Name: "Marketing", Description: "These cookies are used to deliver relevant advertisements.", Required: false},
	}
}
