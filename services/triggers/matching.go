package triggers

import (
	"log"
	"regexp"
	"strings"
	"time"

	"streambingo/models"
)

// CooldownActive reports whether a trigger is still inside its cooldown
// window. A trigger with no cooldown, or that never fired, is always ready.
func CooldownActive(trigger *models.ChatKeywordTrigger, now time.Time) bool {
	if trigger.CooldownSeconds <= 0 || trigger.LastTriggeredAt == nil {
		return false
	}
	elapsed := now.Sub(*trigger.LastTriggeredAt)
	return elapsed < time.Duration(trigger.CooldownSeconds)*time.Second
}

// MatchesMessage evaluates a trigger's keyword rule against a chat message.
// An unknown match type behaves as contains; an invalid regex fails closed to
// no-match. This function never panics on bad configuration.
func MatchesMessage(trigger *models.ChatKeywordTrigger, message string) bool {
	keyword := trigger.Keyword
	candidate := message
	if !trigger.CaseSensitive {
		keyword = strings.ToLower(keyword)
		candidate = strings.ToLower(candidate)
	}

	switch trigger.MatchType {
	case models.MatchTypeExact:
		return candidate == keyword
	case models.MatchTypeStartsWith:
		return strings.HasPrefix(candidate, keyword)
	case models.MatchTypeRegex:
		pattern := trigger.Keyword
		if !trigger.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			log.Printf("❌ Invalid regex in trigger %s, treating as no match: %v", trigger.ID, err)
			return false
		}
		return re.MatchString(message)
	case models.MatchTypeContains:
		return strings.Contains(candidate, keyword)
	default:
		// Unknown match types degrade to the most permissive sane rule.
		return strings.Contains(candidate, keyword)
	}
}
