package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// forbiddenSQLKeywords block every statement that could mutate the store.
// Matched case-insensitively as substrings, which intentionally also rejects
// e.g. column names containing "update" - false positives are acceptable for
// the last line of defense before externally-authored SQL runs.
var forbiddenSQLKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "CREATE",
	"TRUNCATE", "GRANT", "REVOKE", "EXEC", "EXECUTE",
}

// ValidateSQLSafety rejects SQL that is not a single read-only SELECT.
// It must run on every plan before the executor sees it.
func ValidateSQLSafety(sqlQuery string) error {
	upperSQL := strings.ToUpper(sqlQuery)

	for _, keyword := range forbiddenSQLKeywords {
		if strings.Contains(upperSQL, keyword) {
			return fmt.Errorf("forbidden SQL keyword detected: %s", keyword)
		}
	}

	if !strings.HasPrefix(strings.TrimSpace(upperSQL), "SELECT") {
		return fmt.Errorf("query must be a SELECT statement")
	}

	// Semicolons would allow statement chaining.
	if strings.Contains(sqlQuery, ";") {
		return fmt.Errorf("multiple statements not allowed")
	}

	return nil
}

// IsValidPrompt checks if a prompt makes sense (not gibberish).
func IsValidPrompt(prompt string) bool {
	trimmed := strings.TrimSpace(prompt)

	if len(trimmed) < 3 || len(trimmed) > 10000 {
		return false
	}

	words := strings.Fields(trimmed)
	if len(words) < 2 {
		// Single word might be valid if it's long enough and not just
		// one repeated character.
		return len(words) == 1 && len(words[0]) >= 3 && !isRepeatedCharacters(words[0])
	}

	// Should have some letters (at least 30% of non-space characters).
	letterCount := 0
	totalChars := 0
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			letterCount++
		}
		if !unicode.IsSpace(r) {
			totalChars++
		}
	}
	if totalChars == 0 {
		return false
	}
	if float64(letterCount)/float64(totalChars) < 0.3 {
		return false
	}

	return true
}

func isRepeatedCharacters(word string) bool {
	if len(word) < 3 {
		return false
	}
	first := rune(word[0])
	for _, r := range word {
		if r != first {
			return false
		}
	}
	return true
}
