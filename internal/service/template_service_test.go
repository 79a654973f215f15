package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/guides/internal/domain"
)

// stubDrafter is a minimal templates.Drafter for tests.
type stubDrafter struct {
	markdown string
	err      error
	topic    string
}

func (s *stubDrafter) Draft(_ context.Context, _ domain.GuideCategory, topic string) (string, error) {
	s.topic = topic
	return s.markdown, s.err
}

func TestTemplateList(t *testing.T) {
	s := NewTemplateService(nil, discardLogger())
	list := s.List(context.Background())
	assert.Len(t, list, 3)
	assert.False(t, s.CanDraft())
}

func TestTemplateDraftDisabled(t *testing.T) {
	s := NewTemplateService(nil, discardLogger())
	_, err := s.Draft(context.Background(), domain.DraftTemplateRequest{Category: domain.CategoryStudy, Topic: "Go"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateDraft(t *testing.T) {
	d := &stubDrafter{markdown: "# Go plan"}
	s := NewTemplateService(d, discardLogger())

	tpl, err := s.Draft(context.Background(), domain.DraftTemplateRequest{Category: domain.CategoryStudy, Topic: "  Go  "})
	require.NoError(t, err)
	assert.Equal(t, "study_plan_draft", tpl.Key)
	assert.Equal(t, "Go", tpl.Name)
	assert.Equal(t, domain.CategoryStudy, tpl.CategoryHint)
	assert.Equal(t, "# Go plan", tpl.StarterMarkdown)
	assert.Equal(t, "Go", d.topic)
}

func TestTemplateDraftErrors(t *testing.T) {
	s := NewTemplateService(&stubDrafter{err: errors.New("boom")}, discardLogger())
	ctx := context.Background()

	_, err := s.Draft(ctx, domain.DraftTemplateRequest{Category: "FOOD", Topic: "x"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.Draft(ctx, domain.DraftTemplateRequest{Category: domain.CategoryGame, Topic: " "})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.Draft(ctx, domain.DraftTemplateRequest{Category: domain.CategoryGame, Topic: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
