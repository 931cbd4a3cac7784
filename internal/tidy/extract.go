package tidy

import "github.com/ballotops/electiontidy/internal/model"

// ExtractResults concatenates the result lists from all pages into one
// ordered sequence, preserving input order.
func ExtractResults(pages []*model.Page) []*model.Record {
	results := make([]*model.Record, 0)
	for _, page := range pages {
		results = append(results, page.Results...)
	}
	return results
}
