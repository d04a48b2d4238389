package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTab = errors.New("invalid tab")

type Tab string

const (
	TabHome        Tab = "home"
	TabReleaseForm Tab = "release-form"
	TabPricing     Tab = "pricing"
)

type NavItem struct {
	Tab    Tab    `json:"tab"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

var navOrder = []NavItem{
	{Tab: TabHome, Label: "Home"},
	{Tab: TabReleaseForm, Label: "Release Form"},
	{Tab: TabPricing, Label: "Pricing"},
}

func ParseTab(s string) (Tab, error) {
	for _, item := range navOrder {
		if string(item.Tab) == s {
			return item.Tab, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTab, s)
}

// Nav returns the header buttons with the active one flagged.
func Nav(active Tab) []NavItem {
	out := make([]NavItem, len(navOrder))
	for i, item := range navOrder {
		item.Active = item.Tab == active
		out[i] = item
	}
	return out
}

// ViewState is everything one visitor's page holds. It is stored as JSON
// by the session stores.
type ViewState struct {
	BusinessInfo *BusinessInfo `json:"business_info,omitempty"`
	PricingInfo  *PricingInfo  `json:"pricing_info,omitempty"`
	ActiveTab    Tab           `json:"active_tab"`
	Form         ReleaseForm   `json:"form"`
	Message      string        `json:"message,omitempty"`
	Validation   []FieldError  `json:"validation,omitempty"`
	MountedAt    time.Time     `json:"mounted_at"`
}

func NewViewState() *ViewState {
	return &ViewState{
		ActiveTab: TabHome,
		Form:      NewReleaseForm(),
		MountedAt: time.Now().UTC(),
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// View is the derived page. At most one panel is set.
type View struct {
	ActiveTab   Tab               `json:"active_tab"`
	Nav         []NavItem         `json:"nav"`
	Home        *HomePanel        `json:"home,omitempty"`
	ReleaseForm *ReleaseFormPanel `json:"release_form,omitempty"`
	Pricing     *PricingPanel     `json:"pricing,omitempty"`
}

// PanelCount reports how many panels the view renders.
func (v View) PanelCount() int {
	n := 0
	if v.Home != nil {
		n++
	}
	if v.ReleaseForm != nil {
		n++
	}
	if v.Pricing != nil {
		n++
	}
	return n
}

type HomePanel struct {
	Business *BusinessBlock `json:"business,omitempty"`
}

type BusinessBlock struct {
	Name        string       `json:"name,omitempty"`
	Address     string       `json:"address"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	MapURL      string       `json:"map_url,omitempty"`
	Hours       []DayHours   `json:"hours"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type ReleaseFormPanel struct {
	Form           ReleaseForm     `json:"form"`
	JewelryOptions []JewelryOption `json:"jewelry_options"`
	Message        string          `json:"message,omitempty"`
	Errors         []FieldError    `json:"errors,omitempty"`
}

// ErrorFor returns the validation message for a field, if any.
func (p *ReleaseFormPanel) ErrorFor(field string) string {
	for _, e := range p.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

type PriceLine struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Note  string `json:"note,omitempty"`
}

type PricingPanel struct {
	Specialty       []PriceLine `json:"specialty"`
	SinglePrice     string      `json:"single_price"`
	PairPrice       string      `json:"pair_price"`
	AdditionalPrice string      `json:"additional_price"`
	Types           []string    `json:"types"`
	Services        []PriceLine `json:"services,omitempty"`
	Guarantee       string      `json:"guarantee"`
}
