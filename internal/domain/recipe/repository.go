package recipe

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/domain/follow"
	"foodgram/internal/domain/membership"
	"foodgram/internal/domain/tag"
)

// Filter narrows recipe listings. Zero values disable a criterion; the
// membership flags only apply when Viewer is set.
type Filter struct {
	AuthorID      int64
	TagSlugs      []string
	Viewer        int64
	FavoritedOnly bool
	InCartOnly    bool
}

type Repository struct {
	db        *gorm.DB
	favorites *membership.Set[Favorite]
	cart      *membership.Set[ShoppingCartEntry]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
		favorites: membership.NewSet(db, "user_id", "recipe_id", func(u, r int64) *Favorite {
			return &Favorite{UserID: u, RecipeID: r}
		}),
		cart: membership.NewSet(db, "user_id", "recipe_id", func(u, r int64) *ShoppingCartEntry {
			return &ShoppingCartEntry{UserID: u, RecipeID: r}
		}),
	}
}

func (r *Repository) Favorites() *membership.Set[Favorite] {
	return r.favorites
}

func (r *Repository) Cart() *membership.Set[ShoppingCartEntry] {
	return r.cart
}

// Create stores rec with its ingredient rows and tag links in one transaction.
func (r *Repository) Create(ctx context.Context, rec *Recipe, items []IngredientInRecipe, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		if err := insertIngredients(tx, rec.ID, items); err != nil {
			return err
		}
		return insertTags(tx, rec.ID, tagIDs)
	})
}

// Update writes changed columns. A non-nil items or tagIDs replaces the whole
// association set.
func (r *Repository) Update(ctx context.Context, id int64, columns map[string]any, items *[]IngredientInRecipe, tagIDs *[]int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			res := tx.Model(&Recipe{}).Where("id = ?", id).Updates(columns)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrRecipeNotFound
			}
		}
		if items != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&IngredientInRecipe{}).Error; err != nil {
				return err
			}
			if err := insertIngredients(tx, id, *items); err != nil {
				return err
			}
		}
		if tagIDs != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&RecipeTag{}).Error; err != nil {
				return err
			}
			if err := insertTags(tx, id, *tagIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the recipe and every row that references it.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&IngredientInRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&RecipeTag{}).Error; err != nil {
			return err
		}
		if err := r.favorites.WithTx(tx).DropTarget(ctx, id); err != nil {
			return err
		}
		if err := r.cart.WithTx(tx).DropTarget(ctx, id); err != nil {
			return err
		}
		res := tx.Delete(&Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
}

func insertIngredients(tx *gorm.DB, recipeID int64, items []IngredientInRecipe) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]IngredientInRecipe, len(items))
	for i, it := range items {
		rows[i] = IngredientInRecipe{RecipeID: recipeID, IngredientID: it.IngredientID, Amount: it.Amount}
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func insertTags(tx *gorm.DB, recipeID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = RecipeTag{RecipeID: recipeID, TagID: id}
	}
	return tx.Create(&rows).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Recipe, error) {
	var rec Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients.Ingredient").
		First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	recipes := []Recipe{rec}
	if err := r.attachTags(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// AuthorID returns gorm.ErrRecordNotFound for unknown recipes.
func (r *Repository) AuthorID(ctx context.Context, id int64) (int64, error) {
	var rec Recipe
	err := r.db.WithContext(ctx).Select("id", "author_id").First(&rec, id).Error
	return rec.AuthorID, err
}

// Brief loads the short card of a recipe.
func (r *Repository) Brief(ctx context.Context, id int64) (*follow.RecipeBrief, error) {
	var rec Recipe
	err := r.db.WithContext(ctx).Select("id", "name", "image", "cooking_time").First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &follow.RecipeBrief{ID: rec.ID, Name: rec.Name, Image: rec.Image, CookingTime: rec.CookingTime}, nil
}

func (r *Repository) List(ctx context.Context, f Filter, limit, offset int) ([]Recipe, int64, error) {
	q := r.filtered(ctx, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []Recipe
	err := r.filtered(ctx, f).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients.Ingredient").
		Order("recipes.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachTags(ctx, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (r *Repository) filtered(ctx context.Context, f Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&Recipe{})
	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := r.db.WithContext(ctx).Model(&RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.Viewer != 0 && f.FavoritedOnly {
		q = q.Where("recipes.id IN (?)", r.favorites.TargetQuery(ctx, f.Viewer))
	}
	if f.Viewer != 0 && f.InCartOnly {
		q = q.Where("recipes.id IN (?)", r.cart.TargetQuery(ctx, f.Viewer))
	}
	return q
}

type taggedRow struct {
	tag.Tag  `gorm:"embedded"`
	RecipeID int64
}

func (r *Repository) attachTags(ctx context.Context, recipes []Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]int64, len(recipes))
	byID := make(map[int64]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		byID[recipes[i].ID] = i
		recipes[i].Tags = []tag.Tag{}
	}

	var rows []taggedRow
	err := r.db.WithContext(ctx).Model(&tag.Tag{}).
		Select("tags.*, recipe_tags.recipe_id AS recipe_id").
		Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Where("recipe_tags.recipe_id IN ?", ids).
		Order("tags.id ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		i := byID[row.RecipeID]
		recipes[i].Tags = append(recipes[i].Tags, row.Tag)
	}
	return nil
}

func (r *Repository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	var rows []struct {
		AuthorID int64
		N        int64
	}
	err := r.db.WithContext(ctx).Model(&Recipe{}).
		Select("author_id, COUNT(*) AS n").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		out[row.AuthorID] = row.N
	}
	return out, nil
}

// PreviewByAuthors returns the newest recipes of each author, at most limit
// per author when limit > 0.
func (r *Repository) PreviewByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]follow.RecipeBrief, error) {
	var recipes []Recipe
	err := r.db.WithContext(ctx).
		Select("id", "author_id", "name", "image", "cooking_time").
		Where("author_id IN ?", authorIDs).
		Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]follow.RecipeBrief, len(authorIDs))
	for _, rec := range recipes {
		if limit > 0 && len(out[rec.AuthorID]) >= limit {
			continue
		}
		out[rec.AuthorID] = append(out[rec.AuthorID], follow.RecipeBrief{
			ID:          rec.ID,
			Name:        rec.Name,
			Image:       rec.Image,
			CookingTime: rec.CookingTime,
		})
	}
	return out, nil
}
