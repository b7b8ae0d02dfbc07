package models

import "time"

type SitemapType string

const (
	TypeURLSet SitemapType = "URLSET"
	TypeIndex  SitemapType = "INDEX"
)

// TimeLayout is the layout of Record.GeneratedAt.
const TimeLayout = "2006-01-02 15:04:05"

// Record is the persisted outcome of a successful generation run.
type Record struct {
	ID          string         `json:"id"`
	StoreID     int            `json:"store_id"`
	Filename    string         `json:"filename"`
	Type        SitemapType    `json:"type"`
	GeneratedAt string         `json:"generated_at"`
	Files       []string       `json:"files"`
	Groups      map[string]int `json:"groups,omitempty"` // group key -> produced files
}

// Time parses GeneratedAt (UTC).
func (r Record) Time() (time.Time, error) {
	return time.ParseInLocation(TimeLayout, r.GeneratedAt, time.UTC)
}
