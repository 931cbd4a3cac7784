package tidy

import (
	"testing"

	"github.com/ballotops/electiontidy/internal/model"
)

func TestExtractResults(t *testing.T) {
	t.Parallel()

	t.Run("concatenates pages preserving order", func(t *testing.T) {
		t.Parallel()

		pages := []*model.Page{
			{Results: []*model.Record{
				mustRecord(t, `{"election_id": "e1"}`),
				mustRecord(t, `{"election_id": "e2"}`),
			}},
			{Results: []*model.Record{
				mustRecord(t, `{"election_id": "e3"}`),
			}},
		}

		results := ExtractResults(pages)

		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}

		wantOrder := []string{"e1", "e2", "e3"}
		for i, id := range wantOrder {
			got, _ := results[i].Get("election_id")
			if got != id {
				t.Errorf("expected result %d to be %s, got %v", i, id, got)
			}
		}
	})

	t.Run("no pages yields empty sequence", func(t *testing.T) {
		t.Parallel()

		if results := ExtractResults(nil); len(results) != 0 {
			t.Errorf("expected empty sequence, got %d results", len(results))
		}
	})
}
