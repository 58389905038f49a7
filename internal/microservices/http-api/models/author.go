package models

type Author struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Nationality string `json:"nationality" gorm:"size:100;not null"`
}

func (Author) TableName() string {
	return "authors"
}
