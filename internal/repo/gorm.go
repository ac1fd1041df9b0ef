package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bistro_boss/internal/models"
)

const uniqueViolation = "23505"

type GormRepo struct {
	DB *gorm.DB
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func OpenPostgres(ctx context.Context, dsn string) (*GormRepo, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &GormRepo{DB: db}, nil
}

func (r *GormRepo) Users() Collection[models.User]       { return gormCollection[models.User]{db: r.DB} }
func (r *GormRepo) Menus() Collection[models.MenuItem]   { return gormCollection[models.MenuItem]{db: r.DB} }
func (r *GormRepo) Reviews() Collection[models.Review]   { return gormCollection[models.Review]{db: r.DB} }
func (r *GormRepo) Carts() Collection[models.CartItem]   { return gormCollection[models.CartItem]{db: r.DB} }
func (r *GormRepo) Payments() Collection[models.Payment] { return gormCollection[models.Payment]{db: r.DB} }

func (r *GormRepo) InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &GormRepo{DB: tx})
	})
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) Close(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormCollection[T any] struct {
	db *gorm.DB
}

func (c gormCollection[T]) where(ctx context.Context, f Filter) *gorm.DB {
	q := c.db.WithContext(ctx).Model(new(T))
	if len(f) > 0 {
		q = q.Where(map[string]any(f))
	}
	return q
}

func (c gormCollection[T]) List(ctx context.Context, f Filter) ([]T, error) {
	items := make([]T, 0)
	if err := c.where(ctx, f).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (c gormCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	var doc T
	if err := c.where(ctx, f).Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (c gormCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.FindOne(ctx, Filter{"id": id})
}

func (c gormCollection[T]) Insert(ctx context.Context, doc *T) (string, error) {
	id := ensureID(doc)
	if err := c.db.WithContext(ctx).Create(doc).Error; err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return "", err
	}
	return id, nil
}

// Update reports a row as modified only when one of fields actually changes
// its value, matching the document store's modifiedCount.
func (c gormCollection[T]) Update(ctx context.Context, id string, fields map[string]any) (UpdateResult, error) {
	var out UpdateResult
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := map[string]any{}
		res := tx.Model(new(T)).Where("id = ?", id).Limit(1).Find(&current)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		out.Matched = 1

		if !changes(current, fields) {
			return nil
		}
		res = tx.Model(new(T)).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		out.Modified = res.RowsAffected
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return out, nil
}

// changes reports whether any of fields differs from the stored row. Values
// are compared by their printed form since drivers return their own types.
func changes(current, fields map[string]any) bool {
	for k, v := range fields {
		cur, ok := current[k]
		if !ok || cur == nil || fmt.Sprint(cur) != fmt.Sprint(v) {
			return true
		}
	}
	return false
}

func (c gormCollection[T]) Delete(ctx context.Context, id string) (int64, error) {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	return res.RowsAffected, res.Error
}

func (c gormCollection[T]) DeleteMany(ctx context.Context, f Filter) (int64, error) {
	if len(f) == 0 {
		return 0, ErrEmptyFilter
	}
	res := c.db.WithContext(ctx).Where(map[string]any(f)).Delete(new(T))
	return res.RowsAffected, res.Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
