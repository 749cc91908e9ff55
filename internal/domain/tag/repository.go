package tag

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := r.db.WithContext(ctx).Order("id DESC").Find(&tags).Error
	return tags, err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDs returns the tags that exist among ids, in no particular order.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

// Insert adds tags, skipping any that clash with an existing name or slug.
// It reports how many rows were inserted.
func (r *Repository) Insert(ctx context.Context, tags []Tag) (int, error) {
	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tags {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags[i])
			if res.Error != nil {
				return res.Error
			}
			inserted += int(res.RowsAffected)
		}
		return nil
	})
	return inserted, err
}
