package domain

import (
	"context"
	"time"

	"master_crm/internal/model"
)

// IdentityStore - хранилище мастеров, клиентов и их связей.
// Find* возвращают ErrNotFound, если записи нет.
type IdentityStore interface {
	FindMasterByID(ctx context.Context, id uint) (*model.Master, error)
	FindMasterByTgID(ctx context.Context, tgID int64) (*model.Master, error)
	FindMasterByInviteToken(ctx context.Context, token string) (*model.Master, error)
	// Создание мастера. ErrDuplicate, если занят tg_id или токен.
	CreateMaster(ctx context.Context, master *model.Master) error

	FindClientByTgID(ctx context.Context, tgID int64) (*model.Client, error)
	FindClientByPhone(ctx context.Context, phone string) (*model.Client, error)
	CreateClient(ctx context.Context, client *model.Client) error
	// Частичное обновление клиента: пишутся только не-nil поля.
	UpdateClient(ctx context.Context, id uint, upd ClientUpdate) error

	// Создает связь, если ее нет, иначе возвращает существующую. Атомарно на уровне БД.
	UpsertRelationship(ctx context.Context, masterID, clientID uint) (*model.MasterClient, error)
	FindRelationship(ctx context.Context, masterID, clientID uint) (*model.MasterClient, error)
	// Самая свежая связь клиента с любым мастером
	FindLatestRelationship(ctx context.Context, clientID uint) (*model.MasterClient, error)
}

type ClientUpdate struct {
	TgID     *int64
	Name     *string
	Birthday *time.Time
}

func (u ClientUpdate) IsEmpty() bool {
	return u.TgID == nil && u.Name == nil && u.Birthday == nil
}

// ExportRepo - очередь связей на выгрузку в таблицу
type ExportRepo interface {
	// Связи с SheetIsSynced=false вместе с мастером и клиентом
	GetUnsyncedRelationships(ctx context.Context) ([]model.MasterClient, error)
	// Обновление поля SheetIsSynced по id
	UpdateSheetIsSynced(ctx context.Context, id uint, synced bool) error
}
