// Package locale canonicalizes locale tags to the underscore key form
// used by the raw election export (e.g. "en-US" becomes "en_US").
package locale
