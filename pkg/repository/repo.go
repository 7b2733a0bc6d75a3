package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo gives typed access to the shareit tables. Build one over a
// transaction handle to run its methods inside that transaction.
type Repo struct{ DB *gorm.DB }

func New(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Page selects a slice of a list. The page index is From/Size, so From is
// rounded down to a multiple of Size.
type Page struct {
	From int
	Size int
}

func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.From / p.Size) * p.Size
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Size <= 0 {
		return q
	}
	return q.Offset(p.Offset()).Limit(p.Size)
}

// forUpdate locks selected rows where the dialect supports it.
func forUpdate(q *gorm.DB) *gorm.DB {
	return q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
