package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"ctrl+s":       "ctrl+s",
		"Ctrl+S":       "ctrl+s",
		"shift+ctrl+s": "ctrl+shift+s",
		"cmd+o":        "ctrl+o",
		"option+s":     "alt+s",
		"meta+s":       "alt+s",
		"F5":           "f5",
		" ctrl + z ":   "ctrl+z",
		"ctrl+ctrl+a":  "ctrl+a",
		"+":            "+",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalKey(in), "input %q", in)
	}
}

func TestMatchesKey(t *testing.T) {
	assert.True(t, MatchesKey("ctrl+s", "Ctrl+S"))
	assert.True(t, MatchesKey("alt+s", "option+s"))
	assert.False(t, MatchesKey("ctrl+s", "ctrl+shift+s"))
	assert.False(t, MatchesKey("", "ctrl+s"))
	assert.False(t, MatchesKey("ctrl+s", ""))
}

func TestDisplayKey(t *testing.T) {
	assert.Equal(t, "Ctrl+S", DisplayKey("ctrl+s"))
	assert.Equal(t, "F5", DisplayKey("f5"))
	assert.Equal(t, "Ctrl+Shift+Z", DisplayKey("shift+ctrl+z"))
	assert.Equal(t, "", DisplayKey(""))
	if IsMac() {
		assert.Equal(t, "Option+S", DisplayKey("alt+s"))
	} else {
		assert.Equal(t, "Alt+S", DisplayKey("alt+s"))
	}
}
