package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildAnalysisPrompt_SplitsLikedAndPassed(t *testing.T) {
	prompt := BuildAnalysisPrompt([]SwipeSample{
		{Name: "Linen Shirt", Tag: "minimal", Description: "boxy fit", Direction: "like"},
		{Name: "Sequin Dress", Tag: "glam", Direction: "nope"},
	})

	likedIdx := strings.Index(prompt, "Liked products:")
	passedIdx := strings.Index(prompt, "Passed products:")
	require.True(t, likedIdx >= 0 && passedIdx > likedIdx)

	likedSection := prompt[likedIdx:passedIdx]
	passedSection := prompt[passedIdx:]
	assert.Contains(t, likedSection, "Linen Shirt")
	assert.Contains(t, likedSection, "boxy fit")
	assert.NotContains(t, likedSection, "Sequin Dress")
	assert.Contains(t, passedSection, "Sequin Dress")
	assert.Contains(t, passedSection, "glam")
}

func TestBuildAnalysisPrompt_EmptySections(t *testing.T) {
	prompt := BuildAnalysisPrompt([]SwipeSample{
		{Name: "Linen Shirt", Direction: "like"},
	})
	assert.Contains(t, prompt, "(none)")
}

func TestBuildAnalysisPrompt_AsksForTagLine(t *testing.T) {
	prompt := BuildAnalysisPrompt([]SwipeSample{{Name: "Linen Shirt", Direction: "like"}})
	assert.Contains(t, prompt, "prefixed with #")
	assert.Contains(t, prompt, "comma separated")
}

func TestAnalyzeSwipes_RequiresClient(t *testing.T) {
	svc := &AnalysisService{Logger: zap.NewNop()}
	_, err := svc.AnalyzeSwipes(context.Background(), []SwipeSample{{Name: "x", Direction: "like"}})
	assert.Error(t, err)
}

func TestAnalyzeSwipes_RequiresSamples(t *testing.T) {
	svc := &AnalysisService{Client: NewAnalysisClient("test-key", ""), Logger: zap.NewNop()}
	_, err := svc.AnalyzeSwipes(context.Background(), nil)
	assert.Error(t, err)
}
