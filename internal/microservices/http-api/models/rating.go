package models

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one user's score for one book. Uniqueness of (book, user) is
// checked by the service on create, not by a storage constraint.
type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID    int64     `json:"book_id" gorm:"not null;index"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Score     int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 5"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book Book `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
