package models

import "time"

type Book struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	ReleaseDate   time.Time `json:"release_date" gorm:"type:date;not null"`
	FileReference string    `json:"file_reference" gorm:"size:500"`
	GenreID       int64     `json:"genre_id" gorm:"not null;index"`
	AuthorID      int64     `json:"author_id" gorm:"not null;index"`
	CreatorID     string    `json:"creator_id" gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Genre   Genre  `json:"-" gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE;"`
	Author  Author `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Creator User   `json:"-" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}
