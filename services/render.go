package services

import (
	"fmt"
	"net/url"

	"piercing-studio-site/models"
)

const earlobeSetKey = "set_of_earlobes"

// Render derives the page from state. It has no side effects; every state
// change is followed by a fresh call.
func Render(state *models.ViewState) models.View {
	view := models.View{
		ActiveTab: state.ActiveTab,
		Nav:       models.Nav(state.ActiveTab),
	}

	switch state.ActiveTab {
	case models.TabHome:
		view.Home = renderHome(state.BusinessInfo)
	case models.TabReleaseForm:
		view.ReleaseForm = renderReleaseForm(state)
	case models.TabPricing:
		// Without a price list there is nothing to show on this tab.
		if state.PricingInfo.Complete() {
			view.Pricing = renderPricing(state.PricingInfo)
		}
	}
	return view
}

func renderHome(info *models.BusinessInfo) *models.HomePanel {
	panel := &models.HomePanel{}
	if !info.Complete() {
		return panel
	}
	panel.Business = &models.BusinessBlock{
		Name:        info.Name,
		Address:     info.Address,
		Phone:       info.Phone,
		Email:       info.Email,
		Hours:       info.OrderedHours(),
		Coordinates: info.Coordinates,
		MapURL:      mapURL(info),
	}
	return panel
}

func mapURL(info *models.BusinessInfo) string {
	if info.Coordinates != nil {
		return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%g,%g", info.Coordinates.Lat, info.Coordinates.Lng)
	}
	if info.Address != "" {
		return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(info.Address)
	}
	return ""
}

func renderReleaseForm(state *models.ViewState) *models.ReleaseFormPanel {
	return &models.ReleaseFormPanel{
		Form:           state.Form,
		JewelryOptions: models.JewelryOptions,
		Message:        state.Message,
		Errors:         state.Validation,
	}
}

func renderPricing(p *models.PricingInfo) *models.PricingPanel {
	panel := &models.PricingPanel{
		SinglePrice:     models.FormatPrice(p.StandardPiercings.Single.Price),
		PairPrice:       models.FormatPrice(p.StandardPiercings.Pair.Price),
		AdditionalPrice: models.FormatPrice(p.AdditionalPrice()),
		Types:           p.StandardPiercings.Single.Types,
		Guarantee:       p.Guarantee,
	}
	for _, item := range p.SinglePiercings {
		line := priceLine(item)
		if item.Key == earlobeSetKey {
			line.Note = "*No downsize included"
		}
		panel.Specialty = append(panel.Specialty, line)
	}
	for _, item := range p.Services {
		panel.Services = append(panel.Services, priceLine(item))
	}
	return panel
}

func priceLine(item models.KeyedPriceItem) models.PriceLine {
	return models.PriceLine{
		Key:   item.Key,
		Name:  item.Name,
		Price: models.FormatPrice(item.Price),
	}
}
