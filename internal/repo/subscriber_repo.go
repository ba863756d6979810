// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the user directory (Subscriber) and the
// per-subscriber rate windows.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-sms-backend/internal/domain"
)

// GetOrCreateSubscriber returns the subscriber stored under hash, inserting a
// fresh ACTIVE record (not opted out, no welcome sent, language "en") when
// none exists. The boolean reports whether the row was created.
func GetOrCreateSubscriber(ctx context.Context, db *gorm.DB, hash string, now time.Time) (*domain.Subscriber, bool, error) {
	var s domain.Subscriber
	err := db.WithContext(ctx).Where("hash = ?", hash).First(&s).Error
	if err == nil {
		return &s, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	s = domain.Subscriber{
		Hash:     hash,
		Language: "en",
		LastSeen: now.UTC(),
	}
	if err := db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

// SaveSubscriber persists every mutable column of s.
func SaveSubscriber(ctx context.Context, db *gorm.DB, s *domain.Subscriber) error {
	return db.WithContext(ctx).
		Model(&domain.Subscriber{}).
		Where("hash = ?", s.Hash).
		Select("opted_out", "welcome_sent", "language", "last_seen", "updated_at").
		Updates(map[string]any{
			"opted_out":    s.OptedOut,
			"welcome_sent": s.WelcomeSent,
			"language":     s.Language,
			"last_seen":    s.LastSeen.UTC(),
			"updated_at":   time.Now().UTC(),
		}).Error
}

// GetRateWindow returns the counters for hash, or a zero window (not yet
// persisted) when the subscriber has never been admitted.
func GetRateWindow(ctx context.Context, db *gorm.DB, hash string) (*domain.RateWindow, error) {
	var w domain.RateWindow
	err := db.WithContext(ctx).Where("subscriber_hash = ?", hash).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.RateWindow{SubscriberHash: hash}, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// SaveRateWindow upserts the counters for w.SubscriberHash.
func SaveRateWindow(ctx context.Context, db *gorm.DB, w *domain.RateWindow) error {
	return db.WithContext(ctx).Save(w).Error
}
