// Package log provides the structured logger used across electiontidy.
package log
