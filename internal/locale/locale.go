package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultKey is the locale key used when none is configured. The raw
// export keys localized strings by underscore-form locale identifiers.
const DefaultKey = "en_US"

// CanonicalKey converts a user-supplied locale tag to the underscore key
// form used inside the raw export. It accepts BCP 47 tags ("en-US"),
// underscore forms ("en_US"), and case variants ("en-us").
func CanonicalKey(tag string) (string, error) {
	if tag == "" {
		return DefaultKey, nil
	}

	parsed, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("invalid locale %q: %w", tag, err)
	}

	return strings.ReplaceAll(parsed.String(), "-", "_"), nil
}
