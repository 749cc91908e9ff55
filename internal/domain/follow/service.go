package follow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"foodgram/internal/domain/membership"
	"foodgram/internal/domain/user"
	"foodgram/internal/logger"
	"foodgram/internal/metrics"
)

// RecipeReader supplies recipe counts and previews per author.
type RecipeReader interface {
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
	PreviewByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]RecipeBrief, error)
}

type Service struct {
	repo    *Repository
	users   user.Repository
	recipes RecipeReader
}

func NewService(repo *Repository, users user.Repository, recipes RecipeReader) *Service {
	return &Service{repo: repo, users: users, recipes: recipes}
}

// Subscribe makes followerID follow authorID and returns the author card.
func (s *Service) Subscribe(ctx context.Context, followerID, authorID int64, recipesLimit int) (*Subscription, error) {
	if followerID == authorID {
		return nil, ErrSelfFollow
	}
	author, err := s.author(ctx, authorID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Set().Add(ctx, followerID, authorID)
	metrics.MembershipChanges.WithLabelValues("follow", "add", membership.Outcome(err)).Inc()
	if err != nil {
		if errors.Is(err, membership.ErrDuplicate) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	logger.Debug("subscribed", zap.Int64("user_id", followerID), zap.Int64("author_id", authorID))

	subs, err := s.cards(ctx, []user.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

func (s *Service) Unsubscribe(ctx context.Context, followerID, authorID int64) error {
	if _, err := s.author(ctx, authorID); err != nil {
		return err
	}
	err := s.repo.Set().Remove(ctx, followerID, authorID)
	metrics.MembershipChanges.WithLabelValues("follow", "remove", membership.Outcome(err)).Inc()
	if errors.Is(err, membership.ErrNotFound) {
		return ErrNotSubscribed
	}
	return err
}

// ListSubscriptions pages through the authors followerID follows. A
// recipesLimit of zero keeps every recipe in the preview.
func (s *Service) ListSubscriptions(ctx context.Context, followerID int64, limit, offset, recipesLimit int) ([]Subscription, int64, error) {
	authors, total, err := s.repo.Authors(ctx, followerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	subs, err := s.cards(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (s *Service) IsSubscribed(ctx context.Context, followerID, authorID int64) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	return s.repo.Set().Contains(ctx, followerID, authorID)
}

func (s *Service) SubscribedAmong(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error) {
	if followerID == 0 {
		return map[int64]bool{}, nil
	}
	return s.repo.Set().ContainsAny(ctx, followerID, authorIDs)
}

func (s *Service) author(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrAuthorNotFound, id)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) cards(ctx context.Context, authors []user.User, recipesLimit int) ([]Subscription, error) {
	ids := make([]int64, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}

	counts := map[int64]int64{}
	previews := map[int64][]RecipeBrief{}
	if s.recipes != nil && len(ids) > 0 {
		var err error
		if counts, err = s.recipes.CountByAuthors(ctx, ids); err != nil {
			return nil, err
		}
		if previews, err = s.recipes.PreviewByAuthors(ctx, ids, recipesLimit); err != nil {
			return nil, err
		}
	}

	out := make([]Subscription, len(authors))
	for i := range authors {
		recipes := previews[authors[i].ID]
		if recipes == nil {
			recipes = []RecipeBrief{}
		}
		out[i] = Subscription{
			Response:     user.ToResponse(&authors[i], true),
			Recipes:      recipes,
			RecipesCount: counts[authors[i].ID],
		}
	}
	return out, nil
}
