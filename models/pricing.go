package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const DefaultAdditionalPiercingPrice = 20

type PriceItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type StandardSingle struct {
	Price float64  `json:"price"`
	Types []string `json:"types"`
}

type StandardPair struct {
	Price      float64  `json:"price"`
	Additional *float64 `json:"additional,omitempty"`
}

type StandardPiercings struct {
	Single StandardSingle `json:"single"`
	Pair   StandardPair   `json:"pair"`
}

// PricingInfo is the price list served by /api/pricing
type PricingInfo struct {
	SinglePiercings   PriceList         `json:"single_piercings"`
	StandardPiercings StandardPiercings `json:"standard_piercings"`
	Services          PriceList         `json:"services,omitempty"`
	Guarantee         string            `json:"guarantee"`
}

// KeyedPriceItem keeps the API key next to the item so templates can
// attach per-key notes.
type KeyedPriceItem struct {
	Key string `json:"key"`
	PriceItem
}

// PriceList is a JSON object of price items that remembers the order the
// keys were sent in.
type PriceList []KeyedPriceItem

func (l *PriceList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("price list: expected object, got %v", tok)
	}

	out := PriceList{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("price list: expected key, got %v", tok)
		}
		var item PriceItem
		if err := dec.Decode(&item); err != nil {
			return fmt.Errorf("price list %q: %w", key, err)
		}
		out = append(out, KeyedPriceItem{Key: key, PriceItem: item})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

func (l PriceList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(item.PriceItem)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the item stored under key.
func (l PriceList) Get(key string) (PriceItem, bool) {
	for _, item := range l {
		if item.Key == key {
			return item.PriceItem, true
		}
	}
	return PriceItem{}, false
}

// Complete reports whether the list carries the standard prices the
// pricing tab is laid out around.
func (p *PricingInfo) Complete() bool {
	return p != nil && (p.StandardPiercings.Single.Price > 0 || p.StandardPiercings.Pair.Price > 0)
}

// AdditionalPrice is the charge for each piercing past the pair.
func (p *PricingInfo) AdditionalPrice() float64 {
	if p.StandardPiercings.Pair.Additional != nil {
		return *p.StandardPiercings.Pair.Additional
	}
	return DefaultAdditionalPiercingPrice
}

// FormatPrice renders a price without trailing zeros (45, 90.5).
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
