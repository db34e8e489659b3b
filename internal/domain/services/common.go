package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
)

// Clock returns the current time; services take one so tests can pin it
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}

// findByID loads a single record or returns a NotFound domain error
func findByID(ctx context.Context, db *gorm.DB, dest interface{}, id uint, what string) error {
	if err := db.WithContext(ctx).First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NotFound("%s %d not found", what, id)
		}
		return err
	}
	return nil
}

// compareAndSet writes updates only while column still holds expected.
// Zero affected rows means someone else moved the record first. table is an
// empty value of the model, so loaded associations are never written back.
func compareAndSet(tx *gorm.DB, table interface{}, id uint, column string, expected interface{}, updates map[string]interface{}) error {
	result := tx.Model(table).
		Where("id = ? AND "+column+" = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.StaleState("the record was modified by another request, reload and try again")
	}
	return nil
}

// paginate applies offset, limit and returns the normalized query
func paginate(query *gorm.DB, q models.PaginationQuery) (*gorm.DB, models.PaginationQuery) {
	q = q.Normalize()
	return query.Offset(q.Offset()).Limit(q.PageSize), q
}

func order(column string, desc bool) string {
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
