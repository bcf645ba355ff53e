package model

import (
	"time"

	"gorm.io/gorm"
)

// Client - клиент. Может быть заведен мастером вручную (без TgID)
// или зарегистрироваться сам через бота.
type Client struct {
	gorm.Model
	TgID     *int64     `json:"tg_id" gorm:"index"`
	Name     string     `json:"name" gorm:"type:varchar(100);not null"`
	Phone    *string    `json:"phone" gorm:"type:varchar(32);uniqueIndex"`
	Birthday *time.Time `json:"birthday"`
	// Мастер, через которого клиент впервые прошел регистрацию в боте. Не меняется.
	RegisteredVia *uint `json:"registered_via" gorm:"index"`
}
