package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/templates"
)

// TemplateService serves the builtin starter templates and, when a drafting
// backend is configured, generated ones.
type TemplateService struct {
	drafter templates.Drafter
	logger  *slog.Logger
}

// NewTemplateService accepts a nil drafter, which disables drafting.
func NewTemplateService(drafter templates.Drafter, logger *slog.Logger) *TemplateService {
	return &TemplateService{drafter: drafter, logger: logger}
}

func (s *TemplateService) List(context.Context) []domain.Template {
	return templates.Builtin()
}

func (s *TemplateService) CanDraft() bool {
	return s.drafter != nil
}

func (s *TemplateService) Draft(ctx context.Context, req domain.DraftTemplateRequest) (*domain.Template, error) {
	if s.drafter == nil {
		return nil, notFound("template drafting is not enabled")
	}
	if err := check(req); err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)

	s.logger.Info("drafting template", "category", req.Category, "topic", topic)
	markdown, err := s.drafter.Draft(ctx, req.Category, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to draft template: %w", err)
	}

	key := "draft"
	if base, ok := templates.ForCategory(req.Category); ok {
		key = base.Key + "_draft"
	}
	return &domain.Template{
		Key:             key,
		Name:            topic,
		CategoryHint:    req.Category,
		StarterMarkdown: markdown,
	}, nil
}
