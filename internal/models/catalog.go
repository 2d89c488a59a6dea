package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatPair holds the declared input and output format codes for one category.
type FormatPair struct {
	Input  []string `json:"input"`
	Output []string `json:"output"`
}

// FormatCatalog is the server-declared conversion matrix: category name
// ("audio", "video", ...) mapped to its allowed input/output formats.
//
// Category order is significant: the first category the server sends is the
// default selection. The catalog keeps an ordered category list alongside
// the lookup map. Format codes are case-insensitive and normalized to
// lowercase on decode.
type FormatCatalog struct {
	categories []string
	pairs      map[string]FormatPair
}

// UnmarshalJSON decodes the catalog object preserving the server's key order.
func (c *FormatCatalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("format catalog: expected JSON object")
	}

	c.categories = nil
	c.pairs = make(map[string]FormatPair)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		category, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("format catalog: expected category name")
		}

		var pair FormatPair
		if err := dec.Decode(&pair); err != nil {
			return fmt.Errorf("format catalog: category %q: %w", category, err)
		}

		category = strings.ToLower(category)
		for i, f := range pair.Input {
			pair.Input[i] = strings.ToLower(f)
		}
		for i, f := range pair.Output {
			pair.Output[i] = strings.ToLower(f)
		}

		c.categories = append(c.categories, category)
		c.pairs[category] = pair
	}

	return nil
}

// MarshalJSON encodes the catalog as an object in category order.
func (c FormatCatalog) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, category := range c.categories {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.pairs[category])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// Empty reports whether the catalog holds no categories.
func (c FormatCatalog) Empty() bool {
	return len(c.categories) == 0
}

// Categories returns category names in the order the server declared them.
func (c FormatCatalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// DefaultCategory returns the first declared category, or "" for an empty catalog.
func (c FormatCatalog) DefaultCategory() string {
	if len(c.categories) == 0 {
		return ""
	}
	return c.categories[0]
}

// InputFormats returns the declared input formats for a category.
func (c FormatCatalog) InputFormats(category string) []string {
	pair, ok := c.pairs[strings.ToLower(category)]
	if !ok {
		return nil
	}
	out := make([]string, len(pair.Input))
	copy(out, pair.Input)
	return out
}

// OutputFormats returns the declared output formats for a category.
func (c FormatCatalog) OutputFormats(category string) []string {
	pair, ok := c.pairs[strings.ToLower(category)]
	if !ok {
		return nil
	}
	out := make([]string, len(pair.Output))
	copy(out, pair.Output)
	return out
}

// KnownInput reports whether format is a declared input for category.
// The membership test is case-insensitive.
func (c FormatCatalog) KnownInput(category, format string) bool {
	pair, ok := c.pairs[strings.ToLower(category)]
	if !ok {
		return false
	}
	format = strings.ToLower(format)
	for _, f := range pair.Input {
		if f == format {
			return true
		}
	}
	return false
}

// KnownOutput reports whether format is a declared output for category.
func (c FormatCatalog) KnownOutput(category, format string) bool {
	pair, ok := c.pairs[strings.ToLower(category)]
	if !ok {
		return false
	}
	format = strings.ToLower(format)
	for _, f := range pair.Output {
		if f == format {
			return true
		}
	}
	return false
}
