package models

import (
	"fmt"
	"strings"
	"time"
)

type ChangeFrequency string

const (
	ChangeAlways  ChangeFrequency = "always"
	ChangeHourly  ChangeFrequency = "hourly"
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
	ChangeYearly  ChangeFrequency = "yearly"
	ChangeNever   ChangeFrequency = "never"
)

func (c ChangeFrequency) Valid() bool {
	switch c {
	case ChangeAlways, ChangeHourly, ChangeDaily, ChangeWeekly, ChangeMonthly, ChangeYearly, ChangeNever:
		return true
	}
	return false
}

// ParseChangeFrequency is case-insensitive; the empty string is accepted and
// means "not specified".
func ParseChangeFrequency(s string) (ChangeFrequency, error) {
	c := ChangeFrequency(strings.ToLower(strings.TrimSpace(s)))
	if c == "" || c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown change frequency %q", s)
}

type Image struct {
	URL     string `yaml:"url"`
	Title   string `yaml:"title,omitempty"`
	Caption string `yaml:"caption,omitempty"`
}

// Item is one <url> entry. Providers build them; nothing mutates them afterwards.
type Item struct {
	URL             string
	UpdatedAt       time.Time
	ChangeFrequency ChangeFrequency
	Priority        float64
	Images          []Image
}
