package tidy

import (
	"fmt"

	"github.com/ballotops/electiontidy/internal/model"
)

// electionIDColumn is the key column of every per-election table.
const electionIDColumn = "election_id"

// nestedFields are the top-level result fields that hold nested data
// structures. They are excluded from the scalar elections table and
// handled by their own transforms.
var nestedFields = map[string]bool{
	"election_name":        true,
	"district":             true,
	"voting_methods":       true,
	"third_party_verified": true,
}

// Renames applied to the verification table columns.
var verifiedRenames = map[string]string{
	"is_verified": "verified",
	"date":        "verified_date",
}

// JoinElections runs the four per-election transforms over the result
// sequence and outer-joins them on election_id into one table. Elections
// missing from one of the tables get empty cells for that table's columns.
func JoinElections(results []*model.Record, locale string) (*model.Table, error) {
	elections, err := TidyElections(results)
	if err != nil {
		return nil, err
	}

	names, err := TidyNames(results, locale)
	if err != nil {
		return nil, err
	}

	districts, err := TidyDistricts(results)
	if err != nil {
		return nil, err
	}

	verified, err := TidyVerified(results)
	if err != nil {
		return nil, err
	}

	return OuterJoin(elections, names, districts, verified), nil
}

// TidyElections keeps all scalar top-level fields of each result,
// excluding the four nested structures, indexed by election_id.
func TidyElections(results []*model.Record) (*model.Table, error) {
	table := model.NewTable(electionIDColumn)
	for i, result := range results {
		id, err := electionID(i, result)
		if err != nil {
			return nil, err
		}

		row := table.Put(id)
		for _, key := range result.Keys() {
			if key == electionIDColumn || nestedFields[key] {
				continue
			}
			value, _ := result.Get(key)
			row.Set(key, value)
		}
	}
	return table, nil
}

// TidyNames extracts the localized display name of each result, indexed
// by election_id. A result whose election_name lacks the locale key is a
// lookup error.
func TidyNames(results []*model.Record, locale string) (*model.Table, error) {
	table := model.NewTable(electionIDColumn)
	for i, result := range results {
		id, err := electionID(i, result)
		if err != nil {
			return nil, err
		}

		names, err := objectField(i, result, "election_name")
		if err != nil {
			return nil, err
		}

		name, ok := names.Get(locale)
		if !ok {
			return nil, fmt.Errorf("result %d (election %s): election_name: %w: %s", i, id, ErrMissingField, locale)
		}

		table.Put(id).Set("election_name", name)
	}
	return table, nil
}

// TidyDistricts takes the district sub-mapping of each result verbatim as
// a row of named fields, indexed by election_id.
func TidyDistricts(results []*model.Record) (*model.Table, error) {
	table := model.NewTable(electionIDColumn)
	for i, result := range results {
		id, err := electionID(i, result)
		if err != nil {
			return nil, err
		}

		district, err := objectField(i, result, "district")
		if err != nil {
			return nil, err
		}

		row := table.Put(id)
		for _, key := range district.Keys() {
			value, _ := district.Get(key)
			row.Set(key, value)
		}
	}
	return table, nil
}

// TidyVerified takes the third_party_verified sub-mapping of each result
// verbatim as a row, renaming is_verified to verified and date to
// verified_date, indexed by election_id.
func TidyVerified(results []*model.Record) (*model.Table, error) {
	table := model.NewTable(electionIDColumn)
	for i, result := range results {
		id, err := electionID(i, result)
		if err != nil {
			return nil, err
		}

		verified, err := objectField(i, result, "third_party_verified")
		if err != nil {
			return nil, err
		}

		row := table.Put(id)
		for _, key := range verified.Keys() {
			column := key
			if renamed, ok := verifiedRenames[key]; ok {
				column = renamed
			}
			value, _ := verified.Get(key)
			row.Set(column, value)
		}
	}
	return table, nil
}

// OuterJoin aligns tables on their shared key, producing one row per key
// with the columns of all tables. Row order is first appearance across
// the tables; keys present in one table but missing in another yield
// empty cells for the missing table's columns.
func OuterJoin(tables ...*model.Table) *model.Table {
	joined := model.NewTable(tables[0].KeyColumns()...)
	for _, table := range tables {
		for _, row := range table.Rows() {
			target := joined.Ensure(row.Key...)
			for _, column := range table.Columns() {
				if value, ok := row.Get(column); ok {
					target.Set(column, value)
				}
			}
		}
	}
	return joined
}

// electionID extracts the unique election identifier of a result in its
// rendered text form.
func electionID(i int, result *model.Record) (string, error) {
	v, ok := result.Get(electionIDColumn)
	if !ok {
		return "", fmt.Errorf("result %d: %w: %s", i, ErrMissingField, electionIDColumn)
	}
	return model.RenderCell(v), nil
}

// objectField extracts a nested sub-mapping from a result. Absent or
// non-object fields are lookup errors.
func objectField(i int, result *model.Record, name string) (*model.Record, error) {
	v, ok := result.Get(name)
	if !ok {
		return nil, fmt.Errorf("result %d: %w: %s", i, ErrMissingField, name)
	}

	obj, ok := v.(*model.Record)
	if !ok {
		return nil, fmt.Errorf("result %d: %w: %s", i, ErrNotObject, name)
	}
	return obj, nil
}
