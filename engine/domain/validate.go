package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Injection patterns — SQL/NoSQL/template fragments that should never appear
// in user-supplied question text.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(DROP|DELETE|INSERT|UPDATE|ALTER|EXEC|UNION)\b.*\b(TABLE|FROM|INTO|SELECT|SET)\b`),
	regexp.MustCompile(`(?i)(--|;)\s*(DROP|DELETE|SELECT)`),
	regexp.MustCompile(`(?i)\$\{.*\}`),
	regexp.MustCompile(`(?i)\{\s*"\$[a-z]+"\s*:`),
}

// Profanity word list (lowercase, basic set — extend as needed).
var profanityWords = map[string]bool{
	"fuck": true, "shit": true, "ass": true, "bitch": true,
	"damn": true, "cunt": true, "dick": true, "piss": true,
}

const (
	minQuestionLength = 3
	maxQuestionLength = 2000
)

// ValidateQuestion applies the input guardrail checks shared by the query
// pipeline's guardrail node and the ingestion staging reviewer: length
// bounds, injection patterns, and profanity.
func ValidateQuestion(text string) error {
	trimmed := strings.TrimSpace(text)

	n := utf8.RuneCountInString(trimmed)
	if n < minQuestionLength {
		return NewValidationError("question", trimmed, ErrTextTooShort)
	}
	if n > maxQuestionLength {
		return NewValidationError("question", trimmed, ErrTextTooLong)
	}

	for _, pat := range injectionPatterns {
		if pat.MatchString(trimmed) {
			return NewValidationError("question", trimmed, ErrInjection)
		}
	}

	lower := strings.ToLower(trimmed)
	for _, word := range strings.Fields(lower) {
		cleaned := strings.Trim(word, ".,!?;:'\"()-")
		if profanityWords[cleaned] {
			return NewValidationError("question", cleaned, ErrProfanity)
		}
	}

	return nil
}

// ValidatePair runs the commit-time invariant on top of the text guardrail,
// so a pair accepted into the authoritative stores can never carry
// unsafe or malformed question text.
func ValidatePair(p QAPair) error {
	if err := p.Valid(); err != nil {
		return err
	}
	return ValidateQuestion(p.Question)
}
