package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/utils"
	"gorm.io/gorm"
)

// Scope restricts queries to rows owned by a user and, for nested
// resources, to a single parent.
type Scope struct {
	OwnerID      uuid.UUID
	ParentColumn string
	ParentID     uuid.UUID
}

// OwnedBy scopes to a user's rows.
func OwnedBy(userID uuid.UUID) Scope {
	return Scope{OwnerID: userID}
}

// Under narrows the scope to children of one parent row.
func (s Scope) Under(column string, parentID uuid.UUID) Scope {
	s.ParentColumn = column
	s.ParentID = parentID
	return s
}

func (s Scope) apply(db *gorm.DB) *gorm.DB {
	db = db.Where("user_id = ?", s.OwnerID)
	if s.ParentColumn != "" {
		db = db.Where(s.ParentColumn+" = ?", s.ParentID)
	}
	return db
}

// PageQuery selects one page of a creation-ordered listing.
type PageQuery struct {
	Page  int
	Limit int
	Desc  bool
}

// Page is one page of results plus the totals needed to render pagination.
type Page[T any] struct {
	Docs  []T   `json:"docs"`
	Total int64 `json:"total"`
	Limit int   `json:"limit"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// BaseRepository defines common CRUD operations.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	Update(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id any) error

	FindOwned(ctx context.Context, scope Scope, id uuid.UUID, dest *T) error
	Paginate(ctx context.Context, scope Scope, q PageQuery) (*Page[T], error)
	UpdateOwned(ctx context.Context, scope Scope, id uuid.UUID, fields map[string]any, dest *T) error
	DeleteOwned(ctx context.Context, scope Scope, id uuid.UUID) error
}

type baseRepository[T any] struct {
	db   *gorm.DB
	name string
}

func NewBaseRepository[T any](db *gorm.DB, name string) BaseRepository[T] {
	return &baseRepository[T]{db: db, name: name}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return translate(err, r.name, "create")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		return translate(err, r.name, "get")
	}
	return nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Save(obj).Error; err != nil {
		return translate(err, r.name, "update")
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, r.name, "delete")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound(fmt.Sprintf("%s %v not found", r.name, id))
	}
	return nil
}

func (r *baseRepository[T]) FindOwned(ctx context.Context, scope Scope, id uuid.UUID, dest *T) error {
	err := r.db.WithContext(ctx).Scopes(scope.apply).Where("id = ?", id).First(dest).Error
	if err != nil {
		return translate(err, r.name, "get")
	}
	return nil
}

func (r *baseRepository[T]) Paginate(ctx context.Context, scope Scope, q PageQuery) (*Page[T], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}

	base := r.db.WithContext(ctx).Model(new(T)).Scopes(scope.apply)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, translate(err, r.name, "count")
	}

	order := "created_at ASC, id ASC"
	if q.Desc {
		order = "created_at DESC, id DESC"
	}

	docs := make([]T, 0)
	err := base.Session(&gorm.Session{}).
		Order(order).
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&docs).Error
	if err != nil {
		return nil, translate(err, r.name, "list")
	}

	return &Page[T]{
		Docs:  docs,
		Total: total,
		Limit: q.Limit,
		Page:  q.Page,
		Pages: utils.PageCount(total, q.Limit),
	}, nil
}

// UpdateOwned applies fields (column → value) to an owned row and reloads it into dest.
func (r *baseRepository[T]) UpdateOwned(ctx context.Context, scope Scope, id uuid.UUID, fields map[string]any, dest *T) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scope.apply).Where("id = ?", id).First(dest).Error; err != nil {
			return translate(err, r.name, "get")
		}
		if len(fields) > 0 {
			if err := tx.Model(dest).Updates(fields).Error; err != nil {
				return translate(err, r.name, "update")
			}
		}
		return translate(tx.Where("id = ?", id).First(dest).Error, r.name, "reload")
	})
}

func (r *baseRepository[T]) DeleteOwned(ctx context.Context, scope Scope, id uuid.UUID) error {
	var t T
	res := r.db.WithContext(ctx).Scopes(scope.apply).Where("id = ?", id).Delete(&t)
	if res.Error != nil {
		return translate(res.Error, r.name, "delete")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound(r.name + " not found")
	}
	return nil
}

// DefaultPageLimit is used when a listing does not ask for a page size.
const DefaultPageLimit = 100

// translate maps gorm and driver errors onto application error codes.
func translate(err error, entity, op string) error {
	var ae *appErr.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return appErr.NotFound(entity + " not found")
	case IsUniqueViolation(err):
		return appErr.Wrap(err, appErr.CodeAlreadyExists, entity+" already exists")
	default:
		return appErr.Internal(err, fmt.Sprintf("%s %s failed", op, entity))
	}
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// either driver.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
