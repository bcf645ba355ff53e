package gormdb

import (
	"context"
	"errors"
	"fmt"

	"master_crm/internal/domain"
	"master_crm/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IdentityRepository struct {
	DB *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{DB: db}
}

// Migrate создает и обновляет таблицы
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Master{}, &model.Client{}, &model.MasterClient{})
}

// translate приводит ошибки gorm к ошибкам домена
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	default:
		return err
	}
}

func (r *IdentityRepository) FindMasterByID(ctx context.Context, id uint) (*model.Master, error) {
	var master model.Master
	if err := r.DB.WithContext(ctx).First(&master, id).Error; err != nil {
		return nil, translate(err)
	}
	return &master, nil
}

func (r *IdentityRepository) FindMasterByTgID(ctx context.Context, tgID int64) (*model.Master, error) {
	var master model.Master
	if err := r.DB.WithContext(ctx).Where("tg_id = ?", tgID).First(&master).Error; err != nil {
		return nil, translate(err)
	}
	return &master, nil
}

func (r *IdentityRepository) FindMasterByInviteToken(ctx context.Context, token string) (*model.Master, error) {
	var master model.Master
	if err := r.DB.WithContext(ctx).Where("invite_token = ?", token).First(&master).Error; err != nil {
		return nil, translate(err)
	}
	return &master, nil
}

func (r *IdentityRepository) CreateMaster(ctx context.Context, master *model.Master) error {
	return translate(r.DB.WithContext(ctx).Create(master).Error)
}

// Если у одного tg_id несколько клиентов, берется последний обновленный
func (r *IdentityRepository) FindClientByTgID(ctx context.Context, tgID int64) (*model.Client, error) {
	var client model.Client
	err := r.DB.WithContext(ctx).
		Where("tg_id = ?", tgID).
		Order("updated_at DESC").Order("id DESC").
		First(&client).Error
	if err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *IdentityRepository) FindClientByPhone(ctx context.Context, phone string) (*model.Client, error) {
	var client model.Client
	if err := r.DB.WithContext(ctx).Where("phone = ?", phone).First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *IdentityRepository) CreateClient(ctx context.Context, client *model.Client) error {
	return translate(r.DB.WithContext(ctx).Create(client).Error)
}

func (r *IdentityRepository) UpdateClient(ctx context.Context, id uint, upd domain.ClientUpdate) error {
	if upd.IsEmpty() {
		return nil
	}
	fields := make(map[string]interface{}, 3)
	if upd.TgID != nil {
		fields["tg_id"] = *upd.TgID
	}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Birthday != nil {
		fields["birthday"] = *upd.Birthday
	}

	res := r.DB.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertRelationship - INSERT ... ON CONFLICT DO NOTHING и чтение строки.
// Повторный вызов для той же пары возвращает ту же запись.
func (r *IdentityRepository) UpsertRelationship(ctx context.Context, masterID, clientID uint) (*model.MasterClient, error) {
	db := r.DB.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "master_id"}, {Name: "client_id"}},
		DoNothing: true,
	}).Create(model.NewMasterClient(masterID, clientID)).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.FindRelationship(ctx, masterID, clientID)
}

func (r *IdentityRepository) FindRelationship(ctx context.Context, masterID, clientID uint) (*model.MasterClient, error) {
	var rel model.MasterClient
	err := r.DB.WithContext(ctx).
		Where("master_id = ? AND client_id = ?", masterID, clientID).
		First(&rel).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

func (r *IdentityRepository) FindLatestRelationship(ctx context.Context, clientID uint) (*model.MasterClient, error) {
	var rel model.MasterClient
	err := r.DB.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id DESC").
		First(&rel).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

// Получение всех связей с SheetIsSynced=false
func (r *IdentityRepository) GetUnsyncedRelationships(ctx context.Context) ([]model.MasterClient, error) {
	var rels []model.MasterClient
	err := r.DB.WithContext(ctx).
		Preload("Master").Preload("Client").
		Where("sheet_is_synced = ?", false).
		Order("id").
		Find(&rels).Error
	return rels, err
}

// Обновление поля SheetIsSynced по id
func (r *IdentityRepository) UpdateSheetIsSynced(ctx context.Context, id uint, synced bool) error {
	return r.DB.WithContext(ctx).Model(&model.MasterClient{}).Where("id = ?", id).Update("sheet_is_synced", synced).Error
}
