// Package membership stores unique (owner, target) pairs such as favorites,
// shopping cart entries and follows.
package membership

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodgram/internal/database"
)

var (
	ErrDuplicate = errors.New("pair already exists")
	ErrNotFound  = errors.New("pair does not exist")
)

// Set is a relation table of E rows keyed by a unique (ownerCol, targetCol)
// index. Uniqueness is left to the index, so concurrent adds of the same pair
// resolve to one row and ErrDuplicate for everyone else.
type Set[E any] struct {
	db        *gorm.DB
	ownerCol  string
	targetCol string
	build     func(owner, target int64) *E
}

func NewSet[E any](db *gorm.DB, ownerCol, targetCol string, build func(owner, target int64) *E) *Set[E] {
	return &Set[E]{db: db, ownerCol: ownerCol, targetCol: targetCol, build: build}
}

// WithTx returns a copy bound to tx.
func (s *Set[E]) WithTx(tx *gorm.DB) *Set[E] {
	cp := *s
	cp.db = tx
	return &cp
}

func (s *Set[E]) Add(ctx context.Context, owner, target int64) error {
	err := s.db.WithContext(ctx).Create(s.build(owner, target)).Error
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Set[E]) Remove(ctx context.Context, owner, target int64) error {
	res := s.db.WithContext(ctx).
		Where(s.ownerCol+" = ? AND "+s.targetCol+" = ?", owner, target).
		Delete(new(E))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Set[E]) Contains(ctx context.Context, owner, target int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(new(E)).
		Where(s.ownerCol+" = ? AND "+s.targetCol+" = ?", owner, target).
		Count(&n).Error
	return n > 0, err
}

// ContainsAny reports which of targets belong to owner.
func (s *Set[E]) ContainsAny(ctx context.Context, owner int64, targets []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targets))
	if len(targets) == 0 {
		return out, nil
	}
	var ids []int64
	err := s.db.WithContext(ctx).Model(new(E)).
		Where(s.ownerCol+" = ? AND "+s.targetCol+" IN ?", owner, targets).
		Pluck(s.targetCol, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// TargetQuery selects owner's target ids; use it as an IN subquery.
func (s *Set[E]) TargetQuery(ctx context.Context, owner int64) *gorm.DB {
	return s.db.WithContext(ctx).Model(new(E)).
		Select(s.targetCol).
		Where(s.ownerCol+" = ?", owner)
}

// DropTarget removes every pair pointing at target.
func (s *Set[E]) DropTarget(ctx context.Context, target int64) error {
	return s.db.WithContext(ctx).Where(s.targetCol+" = ?", target).Delete(new(E)).Error
}

// Outcome labels err for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "missing"
	default:
		return "error"
	}
}
