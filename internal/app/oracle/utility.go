package oracle

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
)

// connectionLabel returns the display label for a connection: the supplied
// display name with diacritics normalized, or the redacted descriptor.
func connectionLabel(connection *domain.Connection) string {
	name := strings.TrimSpace(connection.Name)
	if len(name) == 0 {
		return connection.Redacted()
	}

	normalized, err := normalizeDiacritics(name)
	if err != nil {
		return connection.Redacted()
	}

	return normalized
}

func normalizeDiacritics(input string) (string, error) {
	normalized, _, err := transform.String(norm.NFD, input)
	if err == nil {
		return normalized, nil
	}
	return "", err
}

// validIdentifier reports whether the value is usable as an unquoted Oracle
// identifier: a letter followed by letters, digits, _, $ or #.
func validIdentifier(value string) bool {
	if len(value) == 0 || len(value) > 128 {
		return false
	}

	for i, r := range value {
		if r > unicode.MaxASCII {
			return false
		}

		if unicode.IsLetter(r) {
			continue
		}

		if i == 0 {
			return false
		}

		if unicode.IsDigit(r) || r == '_' || r == '$' || r == '#' {
			continue
		}

		return false
	}

	return true
}
