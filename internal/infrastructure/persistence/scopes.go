package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// paginate applies the filter's ordering, offset and limit
func paginate(filter shared.Filter, columns sortColumns) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(columns.order(filter.OrderBy, filter.OrderDir)).
			Offset(filter.Offset()).
			Limit(filter.Limit())
	}
}

// translateError maps gorm errors onto domain sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrDuplicate
	default:
		return err
	}
}

// findOne loads a single row by id into a model
func findOne[M any](ctx context.Context, db *gorm.DB, id uuid.UUID) (*M, error) {
	var m M
	if err := db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &m, nil
}

// findOwned lists rows belonging to an owner
func findOwned[M any](ctx context.Context, db *gorm.DB, ownerID uuid.UUID, filter shared.Filter) ([]M, error) {
	var rows []M
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Scopes(paginate(filter, partySortColumns)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// deleteByID removes a row, reporting ErrNotFound when nothing matched
func deleteByID[M any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	var m M
	result := db.WithContext(ctx).Delete(&m, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
