package ai

import (
	"fmt"
	"strings"
)

// StoryParams are the narrative knobs a client may set. Only EraOrCulture
// is required; the rest default to sensible middles.
type StoryParams struct {
	EraOrCulture      string
	StoryOrCharacter  string
	HookStyle         string
	DarknessLevel     string
	DialogueDensity   string
	MoralExplicitness string
}

const promptTemplate = `You are a storyteller writing a short illustrated story for adults.

Setting: %s.
%sWrite the story split into between 6 and 19 short pages. Each page is one
to three sentences that fit comfortably on a single square picture card.

Format your answer EXACTLY like this, with no extra commentary:

Title: <the story title>
Page 1
<text of page 1>
Page 2
<text of page 2>
...
Text Color: #RRGGBB (a hex color that suits the story's mood)
Background Color: #RRGGBB (a complementary, readable background)
%s`

// BuildPrompt constructs the generation prompt from the story parameters.
func BuildPrompt(p StoryParams) string {
	var subject string
	if p.StoryOrCharacter != "" {
		subject = fmt.Sprintf("Subject: %s.\n", p.StoryOrCharacter)
	}

	var tuning []string
	if p.HookStyle != "" {
		tuning = append(tuning, fmt.Sprintf("Open with a %s hook.", p.HookStyle))
	}
	if p.DarknessLevel != "" {
		tuning = append(tuning, fmt.Sprintf("Darkness level: %s.", p.DarknessLevel))
	}
	if p.DialogueDensity != "" {
		tuning = append(tuning, fmt.Sprintf("Dialogue density: %s.", p.DialogueDensity))
	}
	if p.MoralExplicitness != "" {
		tuning = append(tuning, fmt.Sprintf("Moral explicitness: %s.", p.MoralExplicitness))
	}

	extra := ""
	if len(tuning) > 0 {
		extra = "\nStyle notes:\n" + strings.Join(tuning, "\n")
	}

	return fmt.Sprintf(promptTemplate, p.EraOrCulture, subject, extra)
}
