package model

import (
	"encoding/json"
	"fmt"
	"io"
)

// Page is one unit of the paginated raw export. Each page carries a list
// of per-election result records under the "results" key.
type Page struct {
	// Results holds the raw election records on this page.
	Results []*Record `json:"results"`
}

// DecodePages decodes a raw export document, which is a JSON array of
// pages. Result records preserve the key order of the source document.
func DecodePages(r io.Reader) ([]*Page, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var pages []*Page
	if err := dec.Decode(&pages); err != nil {
		return nil, fmt.Errorf("failed to decode raw export: %w", err)
	}
	return pages, nil
}
