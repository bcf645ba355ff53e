package model

import (
	"time"

	"gorm.io/gorm"
)

// MasterClient - связь мастера и клиента со своим бонусным счетом и историей визитов.
// На пару (мастер, клиент) - ровно одна запись.
type MasterClient struct {
	gorm.Model
	MasterID uint    `json:"master_id" gorm:"not null;uniqueIndex:idx_master_client"`
	ClientID uint    `json:"client_id" gorm:"not null;uniqueIndex:idx_master_client"`
	Master   *Master `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Client   *Client `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	BonusBalance    int        `json:"bonus_balance" gorm:"not null;default:0"`
	TotalSpent      int        `json:"total_spent" gorm:"not null;default:0"`
	Note            *string    `json:"note" gorm:"type:text"`
	FirstVisit      *time.Time `json:"first_visit"`
	LastVisit       *time.Time `json:"last_visit"`
	NotifyReminders bool       `json:"notify_reminders" gorm:"not null;default:true"`
	NotifyMarketing bool       `json:"notify_marketing" gorm:"not null;default:true"`

	SheetIsSynced bool `json:"sheet_is_synced" gorm:"not null;default:false"`
}

func NewMasterClient(masterID, clientID uint) *MasterClient {
	return &MasterClient{
		MasterID:        masterID,
		ClientID:        clientID,
		NotifyReminders: true,
		NotifyMarketing: true,
	}
}
