package types

import "time"

// GroupSummary contains summary information about a registered group
type GroupSummary struct {
	Title      string    `json:"title"`
	Framework  string    `json:"framework"`
	FileName   string    `json:"file_name,omitempty"`
	EntryCount int       `json:"entry_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntrySummary contains summary information about a registered entry
type EntrySummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Group      string     `json:"group"`
	Parameters Parameters `json:"parameters,omitempty"`
	Args       Args       `json:"args,omitempty"`
	ArgTypes   ArgTypes   `json:"arg_types,omitempty"`
	Decorators int        `json:"decorators"`
}

// CatalogStats contains catalog statistics
type CatalogStats struct {
	TotalGroups  int            `json:"total_groups"`
	TotalEntries int            `json:"total_entries"`
	Frameworks   map[string]int `json:"frameworks"`
	LastUpdated  *time.Time     `json:"last_updated,omitempty"`
}
