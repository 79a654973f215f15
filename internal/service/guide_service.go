package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/store"
)

// guideRepository is the subset of store.GuideStore that GuideService requires.
type guideRepository interface {
	Create(ctx context.Context, authorID int64, title string, category domain.GuideCategory, templateKey *string, content string) (*domain.Guide, error)
	GetByID(ctx context.Context, id int64) (*domain.Guide, error)
	Search(ctx context.Context, q store.GuideQuery) ([]*domain.Guide, int64, error)
	Update(ctx context.Context, id int64, title string, category domain.GuideCategory, templateKey *string, content string) error
	SoftDelete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]*domain.Guide, error)
	ListFavoritedBy(ctx context.Context, userID int64) ([]*domain.Guide, error)
	ListByFollowedAuthors(ctx context.Context, userID int64, limit, offset int) ([]*domain.Guide, error)
}

// reactionRepository is the subset of store.ReactionStore that GuideService
// requires, for both likes and favorites.
type reactionRepository interface {
	Add(ctx context.Context, userID, guideID int64) error
	Remove(ctx context.Context, userID, guideID int64) error
	Exists(ctx context.Context, userID, guideID int64) (bool, error)
	CountByGuide(ctx context.Context, guideID int64) (int64, error)
}

// commentRepository is the subset of store.CommentStore that GuideService requires.
type commentRepository interface {
	Create(ctx context.Context, guideID, userID int64, content string) (*domain.Comment, error)
	ListByGuide(ctx context.Context, guideID int64) ([]*domain.Comment, error)
}

// checkInRepository is the subset of store.CheckInStore that GuideService requires.
type checkInRepository interface {
	Upsert(ctx context.Context, userID, guideID int64, day string, progress int, note *string) (*domain.CheckIn, error)
	Get(ctx context.Context, userID, guideID int64, day string) (*domain.CheckIn, error)
	ListByUserAndGuide(ctx context.Context, userID, guideID int64) ([]*domain.CheckIn, error)
	CountUsers(ctx context.Context, guideID int64) (int64, error)
	ListRecordsByUser(ctx context.Context, userID int64, limit int) ([]domain.CheckInRecord, error)
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	DefaultFeedSize = 20

	myGuidesLimit   = 50
	myCheckInsLimit = 200
)

// ListParams are the query parameters of a guide listing. Page is zero-based.
type ListParams struct {
	Category string
	Query    string
	Page     int
	Size     int
	Sort     string
}

type GuideService struct {
	guides    guideRepository
	likes     reactionRepository
	favorites reactionRepository
	comments  commentRepository
	checkIns  checkInRepository
	now       func() time.Time
	logger    *slog.Logger
}

func NewGuideService(
	guides guideRepository,
	likes reactionRepository,
	favorites reactionRepository,
	comments commentRepository,
	checkIns checkInRepository,
	logger *slog.Logger,
) *GuideService {
	return &GuideService{
		guides:    guides,
		likes:     likes,
		favorites: favorites,
		comments:  comments,
		checkIns:  checkIns,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *GuideService) requireGuide(ctx context.Context, id int64) (*domain.Guide, error) {
	g, err := s.guides.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide: %w", err)
	}
	if g == nil {
		return nil, errGuideNotFound
	}
	return g, nil
}

func (s *GuideService) card(ctx context.Context, g *domain.Guide) (domain.GuideCard, error) {
	likes, err := s.likes.CountByGuide(ctx, g.ID)
	if err != nil {
		return domain.GuideCard{}, err
	}
	favorites, err := s.favorites.CountByGuide(ctx, g.ID)
	if err != nil {
		return domain.GuideCard{}, err
	}
	return domain.GuideCard{
		ID:            g.ID,
		AuthorID:      g.AuthorID,
		Title:         g.Title,
		Category:      g.Category,
		TemplateKey:   g.TemplateKey,
		AuthorName:    g.AuthorPublicName(),
		CreatedAt:     g.CreatedAt,
		LikeCount:     likes,
		FavoriteCount: favorites,
	}, nil
}

func (s *GuideService) cards(ctx context.Context, guides []*domain.Guide) ([]domain.GuideCard, error) {
	out := make([]domain.GuideCard, 0, len(guides))
	for _, g := range guides {
		c, err := s.card(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("failed to build card for guide %d: %w", g.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// ListGuides returns one page of non-deleted guides.
func (s *GuideService) ListGuides(ctx context.Context, p ListParams) (domain.Page[domain.GuideCard], error) {
	var empty domain.Page[domain.GuideCard]
	if p.Page < 0 {
		return empty, invalid("page must be at least 0")
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		return empty, invalid("size must be between 1 and %d", MaxPageSize)
	}
	category := domain.GuideCategory(strings.ToUpper(strings.TrimSpace(p.Category)))
	if category != "" && !category.Valid() {
		return empty, invalid("unknown category %q", p.Category)
	}
	sort := store.SortLatest
	if strings.EqualFold(p.Sort, string(store.SortUpdated)) {
		sort = store.SortUpdated
	}

	guides, total, err := s.guides.Search(ctx, store.GuideQuery{
		Category: category,
		Text:     p.Query,
		Sort:     sort,
		Limit:    p.Size,
		Offset:   p.Page * p.Size,
	})
	if err != nil {
		return empty, err
	}
	cards, err := s.cards(ctx, guides)
	if err != nil {
		return empty, err
	}
	return domain.NewPage(cards, total, p.Page, p.Size), nil
}

func (s *GuideService) today() string {
	return s.now().Format(domain.DayLayout)
}

// GetGuide returns the detail view. viewerID is zero for anonymous readers,
// whose liked, favorited and checkinToday flags are always false.
func (s *GuideService) GetGuide(ctx context.Context, id, viewerID int64) (*domain.GuideDetail, error) {
	g, err := s.requireGuide(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.card(ctx, g)
	if err != nil {
		return nil, err
	}
	checkinCount, err := s.checkIns.CountUsers(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &domain.GuideDetail{
		ID:              g.ID,
		AuthorID:        g.AuthorID,
		Title:           g.Title,
		Category:        g.Category,
		TemplateKey:     g.TemplateKey,
		ContentMarkdown: g.ContentMarkdown,
		AuthorName:      c.AuthorName,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
		LikeCount:       c.LikeCount,
		FavoriteCount:   c.FavoriteCount,
		CheckinCount:    checkinCount,
	}
	if viewerID == 0 {
		return d, nil
	}

	if d.Liked, err = s.likes.Exists(ctx, viewerID, id); err != nil {
		return nil, err
	}
	if d.Favorited, err = s.favorites.Exists(ctx, viewerID, id); err != nil {
		return nil, err
	}
	ci, err := s.checkIns.Get(ctx, viewerID, id, s.today())
	if err != nil {
		return nil, err
	}
	d.CheckinToday = ci != nil
	return d, nil
}

func normalizeTemplateKey(key *string) *string {
	if key == nil {
		return nil
	}
	k := strings.TrimSpace(*key)
	if k == "" {
		return nil
	}
	return &k
}

func (s *GuideService) CreateGuide(ctx context.Context, authorID int64, req domain.UpsertGuideRequest) (*domain.GuideDetail, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	g, err := s.guides.Create(ctx, authorID, strings.TrimSpace(req.Title), req.Category, normalizeTemplateKey(req.TemplateKey), req.ContentMarkdown)
	if err != nil {
		return nil, storeErr(err, errGuideNotFound)
	}
	s.logger.Info("guide created", "guide_id", g.ID, "author_id", authorID, "category", g.Category)
	return s.GetGuide(ctx, g.ID, authorID)
}

// UpdateGuide replaces the guide's content. Only the author may edit.
func (s *GuideService) UpdateGuide(ctx context.Context, id, authorID int64, req domain.UpsertGuideRequest) (*domain.GuideDetail, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	g, err := s.requireGuide(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.AuthorID != authorID {
		return nil, forbidden("only the author can edit this guide")
	}
	if err := s.guides.Update(ctx, id, strings.TrimSpace(req.Title), req.Category, normalizeTemplateKey(req.TemplateKey), req.ContentMarkdown); err != nil {
		return nil, storeErr(err, errGuideNotFound)
	}
	return s.GetGuide(ctx, id, authorID)
}

// DeleteGuide soft-deletes the guide. Only the author may delete.
func (s *GuideService) DeleteGuide(ctx context.Context, id, authorID int64) error {
	g, err := s.requireGuide(ctx, id)
	if err != nil {
		return err
	}
	if g.AuthorID != authorID {
		return forbidden("only the author can delete this guide")
	}
	if err := s.guides.SoftDelete(ctx, id); err != nil {
		return storeErr(err, errGuideNotFound)
	}
	s.logger.Info("guide deleted", "guide_id", id, "author_id", authorID)
	return nil
}

func (s *GuideService) react(ctx context.Context, r reactionRepository, guideID, userID int64) error {
	if _, err := s.requireGuide(ctx, guideID); err != nil {
		return err
	}
	return storeErr(r.Add(ctx, userID, guideID), errGuideNotFound)
}

func (s *GuideService) Like(ctx context.Context, guideID, userID int64) error {
	return s.react(ctx, s.likes, guideID, userID)
}

func (s *GuideService) Unlike(ctx context.Context, guideID, userID int64) error {
	return s.likes.Remove(ctx, userID, guideID)
}

func (s *GuideService) Favorite(ctx context.Context, guideID, userID int64) error {
	return s.react(ctx, s.favorites, guideID, userID)
}

func (s *GuideService) Unfavorite(ctx context.Context, guideID, userID int64) error {
	return s.favorites.Remove(ctx, userID, guideID)
}

func publicComment(c *domain.Comment) domain.Comment {
	out := *c
	out.UserName = domain.PublicName(c.UserName, c.UserStatus)
	return out
}

// ListComments returns the guide's comments oldest first.
func (s *GuideService) ListComments(ctx context.Context, guideID int64) ([]domain.Comment, error) {
	if _, err := s.requireGuide(ctx, guideID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByGuide(ctx, guideID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, publicComment(c))
	}
	return out, nil
}

func (s *GuideService) CreateComment(ctx context.Context, guideID, userID int64, req domain.CreateCommentRequest) (*domain.Comment, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	if _, err := s.requireGuide(ctx, guideID); err != nil {
		return nil, err
	}
	c, err := s.comments.Create(ctx, guideID, userID, strings.TrimSpace(req.Content))
	if err != nil {
		return nil, storeErr(err, errGuideNotFound)
	}
	out := publicComment(c)
	return &out, nil
}

func (s *GuideService) checkInGuide(ctx context.Context, guideID int64) (*domain.Guide, error) {
	g, err := s.requireGuide(ctx, guideID)
	if err != nil {
		return nil, err
	}
	if !g.Category.SupportsCheckIn() {
		return nil, invalid("check-ins are only supported for study and game guides")
	}
	return g, nil
}

// ListCheckIns returns the caller's own check-ins on the guide, earliest day
// first.
func (s *GuideService) ListCheckIns(ctx context.Context, guideID, userID int64) ([]domain.CheckIn, error) {
	if _, err := s.checkInGuide(ctx, guideID); err != nil {
		return nil, err
	}
	list, err := s.checkIns.ListByUserAndGuide(ctx, userID, guideID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CheckIn, 0, len(list))
	for _, c := range list {
		out = append(out, *c)
	}
	return out, nil
}

// UpsertCheckIn records the caller's progress for one day. A second call for
// the same day replaces progress and note.
func (s *GuideService) UpsertCheckIn(ctx context.Context, guideID, userID int64, req domain.UpsertCheckInRequest) (*domain.CheckIn, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	if _, err := s.checkInGuide(ctx, guideID); err != nil {
		return nil, err
	}
	ci, err := s.checkIns.Upsert(ctx, userID, guideID, req.Day, *req.Progress, req.Note)
	if err != nil {
		return nil, storeErr(err, errGuideNotFound)
	}
	return ci, nil
}

// MyGuides returns the caller's newest guides.
func (s *GuideService) MyGuides(ctx context.Context, userID int64) ([]domain.GuideSimple, error) {
	guides, err := s.guides.ListByAuthor(ctx, userID, myGuidesLimit)
	if err != nil {
		return nil, err
	}
	return simples(guides), nil
}

// MyFavorites returns the caller's favorited guides, latest favorite first.
func (s *GuideService) MyFavorites(ctx context.Context, userID int64) ([]domain.GuideSimple, error) {
	guides, err := s.guides.ListFavoritedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return simples(guides), nil
}

func simples(guides []*domain.Guide) []domain.GuideSimple {
	out := make([]domain.GuideSimple, 0, len(guides))
	for _, g := range guides {
		out = append(out, domain.GuideSimple{ID: g.ID, Title: g.Title, CreatedAt: g.CreatedAt})
	}
	return out
}

func (s *GuideService) MyCheckIns(ctx context.Context, userID int64) ([]domain.CheckInRecord, error) {
	records, err := s.checkIns.ListRecordsByUser(ctx, userID, myCheckInsLimit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.CheckInRecord{}
	}
	return records, nil
}

// Feed returns guides by authors the caller follows, newest first.
func (s *GuideService) Feed(ctx context.Context, userID int64, page, size int) ([]domain.GuideCard, error) {
	if page < 0 {
		return nil, invalid("page must be at least 0")
	}
	if size < 1 || size > MaxPageSize {
		return nil, invalid("size must be between 1 and %d", MaxPageSize)
	}
	guides, err := s.guides.ListByFollowedAuthors(ctx, userID, size, page*size)
	if err != nil {
		return nil, err
	}
	return s.cards(ctx, guides)
}
