package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/vbonduro/guides/internal/domain"
)

// Drafter generates starter markdown for a guide on a topic.
type Drafter interface {
	Draft(ctx context.Context, category domain.GuideCategory, topic string) (string, error)
}

var builtin = []domain.Template{
	{
		Key:          "itinerary_table",
		Name:         "Itinerary table",
		CategoryHint: domain.CategoryTravel,
		StarterMarkdown: `# Itinerary (example)

| Day | City / place | Transport | Stay | Budget | Notes |
|---|---|---|---|---:|---|
| Day1 |  |  |  |  |  |
| Day2 |  |  |  |  |  |
`,
	},
	{
		Key:          "study_plan",
		Name:         "Study plan",
		CategoryHint: domain.CategoryStudy,
		StarterMarkdown: `# Study plan (example)

## Goals
-

## Weekly plan
| Week | Topic | Tasks | Est. hours | Deliverable |
|---|---|---|---:|---|
| Week1 |  |  |  |  |
| Week2 |  |  |  |  |

## Check-in tips
- Record daily: progress (0-100), what you finished today, plan for tomorrow
`,
	},
	{
		Key:          "game_build",
		Name:         "Game build / strategy",
		CategoryHint: domain.CategoryGame,
		StarterMarkdown: `# Build (example)

## When to use
-

## Core idea
-

## Gear / skills / runes
-

## Key techniques
-
`,
	},
}

// Builtin returns the fixed starter templates in display order.
func Builtin() []domain.Template {
	out := make([]domain.Template, len(builtin))
	copy(out, builtin)
	return out
}

// ForCategory returns the builtin template hinted for category.
func ForCategory(category domain.GuideCategory) (domain.Template, bool) {
	for _, t := range builtin {
		if t.CategoryHint == category {
			return t, true
		}
	}
	return domain.Template{}, false
}

// DraftPrompt is the shared prompt used by all drafting backends. The
// category's builtin template is offered as the expected structure.
func DraftPrompt(category domain.GuideCategory, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a starter markdown skeleton for a %s guide about %q.\n", strings.ToLower(string(category)), topic)
	b.WriteString("Keep the headings and tables short, leave blanks for the author to fill in, and respond with markdown only.\n")
	if t, ok := ForCategory(category); ok {
		b.WriteString("Follow this structure:\n\n")
		b.WriteString(t.StarterMarkdown)
	}
	return b.String()
}

// ParseDraft strips a surrounding code fence, which models often add despite
// being asked for plain markdown.
func ParseDraft(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
