package ingredient

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search lists ingredients ordered by name. A non-empty prefix keeps only
// names starting with it, ignoring case.
func (r *Repository) Search(ctx context.Context, prefix string) ([]Ingredient, error) {
	q := r.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}
	var out []Ingredient
	err := q.Find(&out).Error
	return out, err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Ingredient, error) {
	var ing Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return &ing, nil
}

func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []Ingredient
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// Import inserts rows in batches inside one transaction.
func (r *Repository) Import(ctx context.Context, items []Ingredient) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(items, 500).Error
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
