// Package domain defines the persistence models for subscribers, the
// delivery dedup ledger, per-subscriber rate windows and the audit event log.
// These types are mapped with GORM and shared by the repository and service
// layers.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Direction classifies an audit event.
type Direction string

const (
	// DirectionMO is an inbound (mobile-originated) message.
	DirectionMO Direction = "MO"
	// DirectionMT is an outbound (mobile-terminated) reply.
	DirectionMT Direction = "MT"
	// DirectionDUP is a re-delivered message that was dropped.
	DirectionDUP Direction = "DUP"
	// DirectionBLOCK is an inbound message suppressed because the subscriber opted out.
	DirectionBLOCK Direction = "BLOCK"
)

// Subscriber is the per-phone-number state. The raw MSISDN is never stored;
// rows are keyed by its SHA-256 hex digest.
//
// Fields:
//   - Hash: primary key, one row per subscriber.
//   - OptedOut: set by STOP/UNSUBSCRIBE/CANCEL; suppresses all outbound traffic.
//   - WelcomeSent: true once the one-time welcome has been dispatched.
//   - Language: reply language, "en" unless changed externally.
//   - LastSeen: time of the most recent inbound contact.
type Subscriber struct {
	Hash        string    `json:"msisdn_hash"  gorm:"type:char(64);primaryKey"`
	OptedOut    bool      `json:"opted_out"    gorm:"not null;default:false"`
	WelcomeSent bool      `json:"welcome_sent" gorm:"not null;default:false"`
	Language    string    `json:"lang"         gorm:"type:varchar(8);not null;default:'en'"`
	LastSeen    time.Time `json:"last_seen"    gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Subscriber.
func (Subscriber) TableName() string { return "subscribers" }

// SeenDelivery records a processed delivery identifier (provider message id
// or derived fingerprint). A present row means the delivery must not be
// processed again; rows older than the dedup TTL are purged.
type SeenDelivery struct {
	DeliveryID string    `gorm:"type:varchar(255);primaryKey"`
	SeenAt     time.Time `gorm:"not null;index"`
}

// TableName returns the database table name for SeenDelivery.
func (SeenDelivery) TableName() string { return "seen_deliveries" }

// RateWindow holds the hour and day counters for one subscriber. An index is
// floor(unix / window size); a counter is only meaningful for its index.
type RateWindow struct {
	SubscriberHash string `gorm:"type:char(64);primaryKey"`
	HourIndex      int64  `gorm:"not null;default:0"`
	HourCount      int    `gorm:"not null;default:0;check:hour_count >= 0"`
	DayIndex       int64  `gorm:"not null;default:0"`
	DayCount       int    `gorm:"not null;default:0;check:day_count >= 0"`
}

// TableName returns the database table name for RateWindow.
func (RateWindow) TableName() string { return "rate_windows" }

// Event is an immutable audit record. Events are only ever inserted.
type Event struct {
	ID             uint              `json:"id"          gorm:"primaryKey;autoIncrement"`
	CreatedAt      time.Time         `json:"ts"          gorm:"not null;index:idx_events_subscriber,priority:2"`
	Direction      Direction         `json:"direction"   gorm:"type:varchar(8);not null;index;check:direction IN ('MO','MT','DUP','BLOCK')"`
	SubscriberHash string            `json:"msisdn_hash" gorm:"type:char(64);not null;index:idx_events_subscriber,priority:1"`
	Text           string            `json:"text"        gorm:"type:text;not null"`
	Extra          datatypes.JSONMap `json:"extra"       gorm:"type:json"`
}

// TableName returns the database table name for Event.
func (Event) TableName() string { return "events" }
