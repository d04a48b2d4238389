package models

import (
	"sort"
	"strings"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BusinessInfo is the studio contact block served by /api/business-info
type BusinessInfo struct {
	Name        string            `json:"name,omitempty"`
	Address     string            `json:"address"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Coordinates *Coordinates      `json:"coordinates,omitempty"`
	Hours       map[string]string `json:"hours"`
}

// Complete reports whether there is any contact detail to show.
func (b *BusinessInfo) Complete() bool {
	return b != nil && (b.Address != "" || b.Phone != "" || b.Email != "")
}

type DayHours struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

var weekOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// OrderedHours lists the opening hours Monday first. Keys that are not
// weekday names follow in alphabetical order.
func (b *BusinessInfo) OrderedHours() []DayHours {
	if b == nil || len(b.Hours) == 0 {
		return nil
	}

	out := make([]DayHours, 0, len(b.Hours))
	seen := make(map[string]bool, len(b.Hours))
	for _, day := range weekOrder {
		for key, hours := range b.Hours {
			if strings.EqualFold(key, day) {
				out = append(out, DayHours{Day: capitalize(key), Hours: hours})
				seen[key] = true
			}
		}
	}

	var rest []string
	for key := range b.Hours {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		out = append(out, DayHours{Day: capitalize(key), Hours: b.Hours[key]})
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
