package entity

import (
	"time"
)

// Типы событий об оценках из топика rating_events
const (
	EventRatingCreated = "RATING_CREATED"
	EventRatingUpdated = "RATING_UPDATED"
	EventRatingDeleted = "RATING_DELETED"
)

// RatingEvent - событие изменения оценки, публикуемое recipes-service
type RatingEvent struct {
	EventType  string    `json:"event_type"`
	RatingID   string    `json:"rating_id,omitempty"`
	RecipeID   string    `json:"recipe_id"`
	UserID     string    `json:"user_id"`
	Value      float64   `json:"value,omitempty"`
	AvgRating  float64   `json:"avg_rating"`
	NumRatings int64     `json:"num_ratings"`
	Timestamp  time.Time `json:"timestamp"`
}

// AuditEvent - запись журнала аудита в PostgreSQL
type AuditEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	EventType  string    `json:"event_type" gorm:"type:varchar(50);not null;index"`
	RatingID   string    `json:"rating_id" gorm:"type:varchar(50)"`
	RecipeID   string    `json:"recipe_id" gorm:"type:varchar(50);not null;index"`
	UserID     string    `json:"user_id" gorm:"type:varchar(50);not null"`
	Value      float64   `json:"value" gorm:"type:decimal(4,2)"`
	AvgRating  float64   `json:"avg_rating" gorm:"type:decimal(10,8);not null"`
	NumRatings int64     `json:"num_ratings" gorm:"not null"`
	OccurredAt time.Time `json:"occurred_at" gorm:"not null"`
	ReceivedAt time.Time `json:"received_at" gorm:"autoCreateTime;index"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

// RecipeAggregate - агрегат оценок рецепта
type RecipeAggregate struct {
	RecipeID   string  `json:"recipe_id"`
	AvgRating  float64 `json:"avg_rating"`
	NumRatings int64   `json:"num_ratings"`
}

// SweepResult - итог одного прохода аудита агрегатов
type SweepResult struct {
	Checked   int           `json:"checked"`
	Repaired  int           `json:"repaired"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	StartedAt time.Time     `json:"started_at"`
}
