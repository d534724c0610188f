package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/marketplace/internal/domain"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/query"
)

// Update describes a single-row field update. Inc adds to numeric columns in
// the database, so concurrent increments are not lost.
type Update struct {
	Set map[string]any
	Inc map[string]int64
}

type Collection[T models.Document] struct {
	DB   *gorm.DB
	Name string
}

func NewCollection[T models.Document](db *gorm.DB, name string) *Collection[T] {
	return &Collection[T]{DB: db, Name: name}
}

type Store struct {
	Users     *Collection[models.User]
	Services  *Collection[models.Service]
	Products  *Collection[models.Product]
	Bookings  *Collection[models.Booking]
	Purchases *Collection[models.Purchase]
	Reviews   *Collection[models.Review]
}

func New(db *gorm.DB) *Store {
	return &Store{
		Users:     NewCollection[models.User](db, "users"),
		Services:  NewCollection[models.Service](db, "services"),
		Products:  NewCollection[models.Product](db, "products"),
		Bookings:  NewCollection[models.Booking](db, "bookings"),
		Purchases: NewCollection[models.Purchase](db, "purchases"),
		Reviews:   NewCollection[models.Review](db, "reviews"),
	}
}

func ParseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid id", domain.ErrInvalidReference, id)
	}
	return uid, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

func (c *Collection[T]) wrap(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s.%s", domain.ErrNotFound, c.Name, op)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s.%s: %w", domain.ErrConflict, c.Name, op, err)
	default:
		return fmt.Errorf("%w: %s.%s: %w", domain.ErrStorage, c.Name, op, err)
	}
}

func (c *Collection[T]) scoped(ctx context.Context, f query.Filter) *gorm.DB {
	tx := c.DB.WithContext(ctx).Model(new(T))
	for col, v := range f.Eq {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	for col, vals := range f.In {
		tx = tx.Where(clause.IN{Column: clause.Column{Name: col}, Values: vals})
	}
	for _, o := range f.Order {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	return tx
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	uid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := c.DB.WithContext(ctx).Where("id = ?", uid).First(&doc).Error; err != nil {
		return nil, c.wrap("find_by_id", err)
	}
	return &doc, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, f query.Filter) (*T, error) {
	docs, err := c.FindMany(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s.find_one", domain.ErrNotFound, c.Name)
	}
	return &docs[0], nil
}

// FindMany applies equality, membership and ordering in SQL and the regex
// patterns in Go, which keeps matching identical across SQL dialects.
func (c *Collection[T]) FindMany(ctx context.Context, f query.Filter) ([]T, error) {
	var rows []T
	if err := c.scoped(ctx, f).Find(&rows).Error; err != nil {
		return nil, c.wrap("find_many", err)
	}
	if len(f.Patterns) == 0 {
		return rows, nil
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Collection[T]) Count(ctx context.Context, f query.Filter) (int64, error) {
	if len(f.Patterns) > 0 {
		rows, err := c.FindMany(ctx, f)
		if err != nil {
			return 0, err
		}
		return int64(len(rows)), nil
	}
	var n int64
	f.Order = nil
	if err := c.scoped(ctx, f).Count(&n).Error; err != nil {
		return 0, c.wrap("count", err)
	}
	return n, nil
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if err := c.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return c.wrap("insert", err)
	}
	return nil
}

func (c *Collection[T]) UpdateFields(ctx context.Context, id string, u Update) error {
	uid, err := ParseID(id)
	if err != nil {
		return err
	}
	if len(u.Set)+len(u.Inc) == 0 {
		return fmt.Errorf("%w: %s.update_fields: nothing to update", domain.ErrValidation, c.Name)
	}

	values := make(map[string]any, len(u.Set)+len(u.Inc))
	for col, v := range u.Set {
		values[col] = v
	}
	for col, n := range u.Inc {
		values[col] = gorm.Expr("? + ?", clause.Column{Name: col}, n)
	}

	res := c.DB.WithContext(ctx).Model(new(T)).Where("id = ?", uid).Updates(values)
	if res.Error != nil {
		return c.wrap("update_fields", res.Error)
	}
	if res.RowsAffected == 0 {
		return c.wrap("update_fields", gorm.ErrRecordNotFound)
	}
	return nil
}

// RaiseTo sets col to n on the row when its current value is below n. It
// reports whether the row changed; a row already at or above n is left alone.
func (c *Collection[T]) RaiseTo(ctx context.Context, id, col string, n int64) (bool, error) {
	uid, err := ParseID(id)
	if err != nil {
		return false, err
	}
	res := c.DB.WithContext(ctx).Model(new(T)).
		Where("id = ? AND ? < ?", uid, clause.Column{Name: col}, n).
		Update(col, n)
	if res.Error != nil {
		return false, c.wrap("raise_to", res.Error)
	}
	return res.RowsAffected > 0, nil
}
