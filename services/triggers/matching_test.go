package triggers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"streambingo/models"
)

func testTrigger(keyword string, matchType models.MatchType, caseSensitive bool) *models.ChatKeywordTrigger {
	return &models.ChatKeywordTrigger{
		ID:            "trig-test",
		Keyword:       keyword,
		MatchType:     matchType,
		CaseSensitive: caseSensitive,
		IsActive:      true,
	}
}

func TestMatchesMessage(t *testing.T) {
	t.Run("ExactCaseInsensitive", func(t *testing.T) {
		trigger := testTrigger("hello", models.MatchTypeExact, false)
		assert.True(t, MatchesMessage(trigger, "HELLO"))
		assert.True(t, MatchesMessage(trigger, "hello"))
		assert.False(t, MatchesMessage(trigger, "hello there"))
	})

	t.Run("ExactCaseSensitive", func(t *testing.T) {
		trigger := testTrigger("hello", models.MatchTypeExact, true)
		assert.False(t, MatchesMessage(trigger, "HELLO"))
		assert.True(t, MatchesMessage(trigger, "hello"))
	})

	t.Run("Contains", func(t *testing.T) {
		trigger := testTrigger("pog", models.MatchTypeContains, false)
		assert.True(t, MatchesMessage(trigger, "that was POGGERS"))
		assert.False(t, MatchesMessage(trigger, "nothing here"))
	})

	t.Run("StartsWith", func(t *testing.T) {
		trigger := testTrigger("abc", models.MatchTypeStartsWith, false)
		assert.True(t, MatchesMessage(trigger, "abcdef"))
		assert.False(t, MatchesMessage(trigger, "xabc"))
	})

	t.Run("RegexCaseInsensitiveByDefault", func(t *testing.T) {
		trigger := testTrigger("^gg( wp)?$", models.MatchTypeRegex, false)
		assert.True(t, MatchesMessage(trigger, "GG WP"))
		assert.True(t, MatchesMessage(trigger, "gg"))
		assert.False(t, MatchesMessage(trigger, "gg ez"))
	})

	t.Run("RegexCaseSensitive", func(t *testing.T) {
		trigger := testTrigger("^gg$", models.MatchTypeRegex, true)
		assert.True(t, MatchesMessage(trigger, "gg"))
		assert.False(t, MatchesMessage(trigger, "GG"))
	})

	t.Run("InvalidRegexFailsClosed", func(t *testing.T) {
		trigger := testTrigger("([unclosed", models.MatchTypeRegex, false)
		assert.False(t, MatchesMessage(trigger, "([unclosed"))
	})

	t.Run("UnknownMatchTypeBehavesAsContains", func(t *testing.T) {
		trigger := testTrigger("pog", models.MatchType("fuzzy"), false)
		assert.True(t, MatchesMessage(trigger, "big pog moment"))
		assert.False(t, MatchesMessage(trigger, "no match"))
	})
}

func TestCooldownActive(t *testing.T) {
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	t.Run("BlocksInsideWindow", func(t *testing.T) {
		trigger := testTrigger("hi", models.MatchTypeExact, false)
		trigger.CooldownSeconds = 60
		trigger.LastTriggeredAt = &base

		assert.True(t, CooldownActive(trigger, base.Add(30*time.Second)))
	})

	t.Run("AllowsAfterWindow", func(t *testing.T) {
		trigger := testTrigger("hi", models.MatchTypeExact, false)
		trigger.CooldownSeconds = 60
		trigger.LastTriggeredAt = &base

		assert.False(t, CooldownActive(trigger, base.Add(61*time.Second)))
	})

	t.Run("NeverFiredIsAlwaysReady", func(t *testing.T) {
		trigger := testTrigger("hi", models.MatchTypeExact, false)
		trigger.CooldownSeconds = 60

		assert.False(t, CooldownActive(trigger, base))
	})

	t.Run("ZeroCooldownIsAlwaysReady", func(t *testing.T) {
		trigger := testTrigger("hi", models.MatchTypeExact, false)
		trigger.LastTriggeredAt = &base

		assert.False(t, CooldownActive(trigger, base.Add(time.Second)))
	})
}
