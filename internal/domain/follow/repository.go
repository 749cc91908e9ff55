package follow

import (
	"context"

	"gorm.io/gorm"

	"foodgram/internal/domain/membership"
	"foodgram/internal/domain/user"
)

type Repository struct {
	db      *gorm.DB
	follows *membership.Set[Follow]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
		follows: membership.NewSet(db, "user_id", "author_id", func(follower, author int64) *Follow {
			return &Follow{UserID: follower, AuthorID: author}
		}),
	}
}

func (r *Repository) Set() *membership.Set[Follow] {
	return r.follows
}

// Authors pages through the users followerID is subscribed to, oldest author
// id first.
func (r *Repository) Authors(ctx context.Context, followerID int64, limit, offset int) ([]user.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&user.User{}).
		Where("id IN (?)", r.follows.TargetQuery(ctx, followerID))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []user.User
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.follows.TargetQuery(ctx, followerID)).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&authors).Error
	return authors, total, err
}
