// Package model defines the data structures shared across electiontidy.
// It contains the order-preserving Record type for raw JSON election
// exports, the Table type for tidy output, and the Run type that carries
// state through the flatten pipeline.
package model
