package model

import "gorm.io/gorm"

// Настройки бонусной программы по умолчанию
const (
	DefaultBonusRate     = 5.0
	DefaultBonusMaxSpend = 50.0
	DefaultBonusBirthday = 300
)

// Master - исполнитель услуг. Один аккаунт Telegram - не больше одного мастера.
type Master struct {
	gorm.Model
	TgID        int64   `json:"tg_id" gorm:"not null;uniqueIndex"`
	Name        string  `json:"name" gorm:"type:varchar(100);not null"`
	InviteToken string  `json:"invite_token" gorm:"type:varchar(64);not null;uniqueIndex"`
	Sphere      *string `json:"sphere" gorm:"type:varchar(200)"`
	Contacts    *string `json:"contacts" gorm:"type:varchar(500)"`
	Socials     *string `json:"socials" gorm:"type:varchar(500)"`
	WorkHours   *string `json:"work_hours" gorm:"type:varchar(200)"`

	BonusEnabled  bool    `json:"bonus_enabled" gorm:"not null;default:true"`
	BonusRate     float64 `json:"bonus_rate" gorm:"not null;default:5"`
	BonusMaxSpend float64 `json:"bonus_max_spend" gorm:"not null;default:50"`
	BonusBirthday int     `json:"bonus_birthday" gorm:"not null;default:300"`
}

// NewMaster заполняет бонусную программу значениями по умолчанию.
func NewMaster(tgID int64, name, inviteToken string) *Master {
	return &Master{
		TgID:          tgID,
		Name:          name,
		InviteToken:   inviteToken,
		BonusEnabled:  true,
		BonusRate:     DefaultBonusRate,
		BonusMaxSpend: DefaultBonusMaxSpend,
		BonusBirthday: DefaultBonusBirthday,
	}
}
