// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the delivery dedup ledger: recording
// processed delivery ids, looking them up, and purging expired rows.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-sms-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a delivery id has already been recorded.
var ErrDuplicate = errors.New("duplicate")

// PurgeSeen deletes ledger rows first seen strictly before cutoff and returns
// how many were removed.
func PurgeSeen(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("seen_at < ?", cutoff).
		Delete(&domain.SeenDelivery{})
	return res.RowsAffected, res.Error
}

// IsSeen reports whether deliveryID is present in the ledger.
func IsSeen(ctx context.Context, db *gorm.DB, deliveryID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.SeenDelivery{}).
		Where("delivery_id = ?", deliveryID).
		Count(&n).Error
	return n > 0, err
}

// MarkSeen records deliveryID as processed at seenAt. It returns ErrDuplicate
// when the id is already present.
func MarkSeen(ctx context.Context, db *gorm.DB, deliveryID string, seenAt time.Time) error {
	rec := &domain.SeenDelivery{DeliveryID: deliveryID, SeenAt: seenAt.UTC()}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// isUniqueViolation recognises primary-key/unique failures. glebarez/sqlite
// often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "constraint failed: primary key")
}
