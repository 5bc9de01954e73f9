package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPreferenceTags_ScansWholeText(t *testing.T) {
	tags := ExtractPreferenceTags("You enjoy #street and #retro looks\n#street #retro")
	assert.ElementsMatch(t, []string{"street", "retro"}, tags)
}

func TestExtractPreferenceTags_HashTagsOnLastLine(t *testing.T) {
	// The last line carries hashtags, so the comma fallback stays off.
	tags := ExtractPreferenceTags("You lean minimal.\n#a #b")
	assert.ElementsMatch(t, []string{"a", "b"}, tags)
}

func TestExtractPreferenceTags_CommaLastLineNoHashAnywhere(t *testing.T) {
	tags := ExtractPreferenceTags("You lean minimal.\na, b, c")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, tags)
}

// The comma fallback is decided by the last line alone: hashtags on earlier
// lines do not suppress it. This looks like an artifact of the original
// extraction rule but downstream ranking was tuned against it, so it is
// pinned here on purpose.
func TestExtractPreferenceTags_EarlierHashAndBareCommaLastLine(t *testing.T) {
	tags := ExtractPreferenceTags("You like #a styles.\nx, y")
	assert.ElementsMatch(t, []string{"a", "x", "y"}, tags)
}

func TestExtractPreferenceTags_EmptyInput(t *testing.T) {
	assert.Empty(t, ExtractPreferenceTags(""))
	assert.Empty(t, ExtractPreferenceTags("   \n  \n"))
}

func TestExtractPreferenceTags_DropsEmptyCommaPieces(t *testing.T) {
	tags := ExtractPreferenceTags("a, , b,,")
	assert.ElementsMatch(t, []string{"a", "b"}, tags)
}

func TestExtractPreferenceTags_Deduplicates(t *testing.T) {
	tags := ExtractPreferenceTags("#a and #a again\n#a #b")
	assert.ElementsMatch(t, []string{"a", "b"}, tags)
}

func TestExtractPreferenceTags_Idempotent(t *testing.T) {
	text := "You like #minimal and #casual looks.\nminimal, casual, comfy"
	first := ExtractPreferenceTags(text)
	second := ExtractPreferenceTags(text)
	assert.Equal(t, first, second)
}
