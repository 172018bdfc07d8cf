package detection

import (
	"errors"
	"fmt"
	"strconv"
)

// CheckCode identifies a content check in the closed enumeration the platform
// runs over each message. Values are persisted as integers; the negative range
// is reserved for the schema remap protocol and must never hold a real code.
type CheckCode int

const (
	// CheckCodeUnknown is the explicit sentinel for values that predate the
	// enumeration or arrived malformed. It is never produced by a running
	// check, only by normalization rejecting its input.
	CheckCodeUnknown CheckCode = -1

	CheckCodeCombined      CheckCode = 0
	CheckCodeKnownSpammer  CheckCode = 1
	CheckCodeBayes         CheckCode = 2
	CheckCodeOpenAI        CheckCode = 3
	CheckCodeStopWords     CheckCode = 4
	CheckCodeEmoji         CheckCode = 5
	CheckCodeURLFiltering  CheckCode = 6
	CheckCodeImpersonation CheckCode = 7
)

var checkCodeNames = map[CheckCode]string{
	CheckCodeUnknown:       "unknown",
	CheckCodeCombined:      "combined",
	CheckCodeKnownSpammer:  "known_spammer",
	CheckCodeBayes:         "bayes",
	CheckCodeOpenAI:        "openai",
	CheckCodeStopWords:     "stop_words",
	CheckCodeEmoji:         "emoji",
	CheckCodeURLFiltering:  "url_filtering",
	CheckCodeImpersonation: "impersonation",
}

func (c CheckCode) String() string {
	if name, ok := checkCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("check(%d)", int(c))
}

func (c CheckCode) Valid() bool {
	_, ok := checkCodeNames[c]
	return ok && c != CheckCodeUnknown
}

// ErrUnrecognizedCheck is returned when a legacy check name matches no
// enumerated literal. The historical path cast the string to a number and blew
// up on non-numeric input; normalization now rejects loudly instead.
var ErrUnrecognizedCheck = errors.New("unrecognized check name")

// legacyCheckNames is the literal mapping table for string-named codes written
// before the integer enumeration existed. Aliases accumulate here; never
// remove one, old rows keep referencing them.
var legacyCheckNames = map[string]CheckCode{
	"combined":       CheckCodeCombined,
	"cas":            CheckCodeKnownSpammer,
	"known_spammer":  CheckCodeKnownSpammer,
	"knownspammer":   CheckCodeKnownSpammer,
	"bayes":          CheckCodeBayes,
	"bayesian":       CheckCodeBayes,
	"openai":         CheckCodeOpenAI,
	"gpt":            CheckCodeOpenAI,
	"stopwords":      CheckCodeStopWords,
	"stop_words":     CheckCodeStopWords,
	"blocklist":      CheckCodeStopWords,
	"emoji":          CheckCodeEmoji,
	"too_many_emoji": CheckCodeEmoji,
	"url":            CheckCodeURLFiltering,
	"url_filtering":  CheckCodeURLFiltering,
	"impersonation":  CheckCodeImpersonation,
	"lookalike":      CheckCodeImpersonation,
}

// NormalizeLegacyCode maps a legacy string-named check onto the integer
// enumeration. Purely numeric input is accepted only when it names an
// enumerated code already; everything else is CheckCodeUnknown plus
// ErrUnrecognizedCheck, so a migration batch fails instead of silently
// writing garbage.
func NormalizeLegacyCode(name string) (CheckCode, error) {
	if code, ok := legacyCheckNames[name]; ok {
		return code, nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		if code := CheckCode(n); code.Valid() {
			return code, nil
		}
	}
	return CheckCodeUnknown, fmt.Errorf("%w: %q", ErrUnrecognizedCheck, name)
}
