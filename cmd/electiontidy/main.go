// Package main provides the entry point for the electiontidy CLI.
//
// electiontidy reshapes nested JSON election exports into flat tabular
// form: one CSV row per election, and one CSV row per (election,
// voting-method) pair.
//
// Usage:
//
//	electiontidy tidy <raw-export.json>
//	electiontidy tidy --locale en_US --elections-output elections.csv <raw-export.json>
//
// See --help for all available options.
package main

// main is the entry point for electiontidy.
func main() {
	Execute()
}
