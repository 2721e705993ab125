package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Price is a package price as the catalog stores it: either a plain number
// or a decorated display string such as "₦15,000". The raw text is kept as is.
type Price struct {
	raw string
}

func NewPrice(raw string) Price { return Price{raw: raw} }

func (p Price) String() string { return p.raw }

func (p Price) IsZero() bool { return p.raw == "" }

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		p.raw = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		p.raw = s
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		p.raw = n.String()
	}
	return nil
}

// MarshalJSON writes plain numbers as JSON numbers and everything else as a string.
func (p Price) MarshalJSON() ([]byte, error) {
	if p.raw == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(p.raw, 64); err == nil && json.Valid([]byte(p.raw)) {
		return []byte(p.raw), nil
	}
	return json.Marshal(p.raw)
}
