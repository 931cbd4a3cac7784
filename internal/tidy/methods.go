package tidy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ballotops/electiontidy/internal/model"
)

// methodIDColumn is the second key column of the voting-methods table.
// The method ID is the 0-based position within an election's list, not a
// stable identifier across export updates.
const methodIDColumn = "method_id"

// instructionsField holds the nested per-locale voting instructions.
const instructionsField = "instructions"

// votingIDField is the intermediate key under instructions.
const votingIDField = "voting-id"

// TidyVotingMethods produces one row per (election_id, method position)
// for every result with a non-empty voting_methods list. Elections with
// no voting methods contribute zero rows. Column names are prefixed with
// "method_" and internal hyphens are replaced with underscores.
func TidyVotingMethods(results []*model.Record, locale string) (*model.Table, error) {
	table := model.NewTable(electionIDColumn, methodIDColumn)
	for i, result := range results {
		id, err := electionID(i, result)
		if err != nil {
			return nil, err
		}

		v, ok := result.Get("voting_methods")
		if !ok || v == nil {
			continue
		}

		methods, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("result %d (election %s): %w: voting_methods", i, id, ErrNotList)
		}

		for j, entry := range methods {
			method, ok := entry.(*model.Record)
			if !ok {
				return nil, fmt.Errorf("result %d (election %s): voting_methods[%d]: %w", i, id, j, ErrNotObject)
			}

			flat, err := FlattenVotingMethod(method, locale)
			if err != nil {
				return nil, fmt.Errorf("result %d (election %s): voting_methods[%d]: %w", i, id, j, err)
			}

			row := table.Put(id, strconv.Itoa(j))
			for _, key := range flat.Keys() {
				value, _ := flat.Get(key)
				row.Set(methodColumn(key), value)
			}
		}
	}
	return table, nil
}

// FlattenVotingMethod copies all fields of a voting method except
// instructions, then appends the single localized instruction string
// found at instructions -> voting-id -> <locale> as the last field.
// The nested path is assumed uniform across all entries; an absent key
// anywhere along it is a lookup error.
func FlattenVotingMethod(method *model.Record, locale string) (*model.Record, error) {
	flat := model.NewRecord()
	for _, key := range method.Keys() {
		if key == instructionsField {
			continue
		}
		value, _ := method.Get(key)
		flat.Set(key, value)
	}

	instructions, err := nestedObject(method, instructionsField)
	if err != nil {
		return nil, err
	}

	votingID, err := nestedObject(instructions, votingIDField)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", instructionsField, err)
	}

	localized, ok := votingID.Get(locale)
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w: %s", instructionsField, votingIDField, ErrMissingField, locale)
	}

	flat.Set(instructionsField, localized)
	return flat, nil
}

// NestVotingMethod is the inverse of FlattenVotingMethod: it rebuilds the
// nested method mapping from a flat one. Used to verify that flattening
// is lossless for well-formed input.
func NestVotingMethod(flat *model.Record, locale string) *model.Record {
	method := model.NewRecord()
	for _, key := range flat.Keys() {
		if key == instructionsField {
			continue
		}
		value, _ := flat.Get(key)
		method.Set(key, value)
	}

	localized := model.NewRecord()
	value, _ := flat.Get(instructionsField)
	localized.Set(locale, value)

	votingID := model.NewRecord()
	votingID.Set(votingIDField, localized)
	method.Set(instructionsField, votingID)
	return method
}

// nestedObject looks up a key that must hold a nested mapping.
func nestedObject(rec *model.Record, name string) (*model.Record, error) {
	v, ok := rec.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}

	obj, ok := v.(*model.Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, name)
	}
	return obj, nil
}

// methodColumn maps a flat method field name to its output column name.
func methodColumn(field string) string {
	return "method_" + strings.ReplaceAll(field, "-", "_")
}
