package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"master_crm/internal/domain"
	"master_crm/internal/model"
	"master_crm/pkg/masker"

	"go.uber.org/zap"
)

// Identity - данные, собранные анкетой клиента
type Identity struct {
	MasterID uint
	TgID     int64
	Name     string
	Phone    *string
	Birthday *time.Time
}

// Reconciler решает, создать нового клиента или привязать Telegram к
// существующему (заведенному мастером вручную) по номеру телефона,
// и заводит связь мастер-клиент.
//
// Шаги не объединены в транзакцию: если клиент записан, а связь нет,
// клиент остается в базе. Повторный вызов с тем же телефоном доводит дело
// до конца и не создает дублей.
type Reconciler struct {
	store  domain.IdentityStore
	logger *zap.Logger
}

func NewReconciler(store domain.IdentityStore, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

func (r *Reconciler) Reconcile(ctx context.Context, in Identity) (*model.Client, *model.MasterClient, error) {
	var existing *model.Client
	if in.Phone != nil {
		client, err := r.store.FindClientByPhone(ctx, *in.Phone)
		switch {
		case err == nil:
			existing = client
		case !errors.Is(err, domain.ErrNotFound):
			return nil, nil, fmt.Errorf("find client by phone: %w", err)
		}
	}

	var client *model.Client
	if existing != nil {
		merged, err := r.merge(ctx, existing, in)
		if err != nil {
			return nil, nil, err
		}
		client = merged
	} else {
		created, err := r.create(ctx, in)
		if err != nil {
			return nil, nil, err
		}
		client = created
	}

	rel, err := r.store.UpsertRelationship(ctx, in.MasterID, client.ID)
	if err != nil {
		return client, nil, fmt.Errorf("upsert relationship: %w", err)
	}
	return client, rel, nil
}

// merge привязывает tg_id и имя к найденному клиенту. День рождения
// записывается, только если его не было. RegisteredVia не трогаем.
func (r *Reconciler) merge(ctx context.Context, client *model.Client, in Identity) (*model.Client, error) {
	upd := domain.ClientUpdate{TgID: &in.TgID, Name: &in.Name}
	if client.Birthday == nil && in.Birthday != nil {
		upd.Birthday = in.Birthday
	}
	if err := r.store.UpdateClient(ctx, client.ID, upd); err != nil {
		return nil, fmt.Errorf("update client %d: %w", client.ID, err)
	}

	merged := *client
	merged.TgID = upd.TgID
	merged.Name = *upd.Name
	if upd.Birthday != nil {
		merged.Birthday = upd.Birthday
	}

	r.logger.Info("client merged by phone",
		zap.Uint("client_id", client.ID),
		zap.Int64("tg_id", in.TgID),
		zap.Uint("master_id", in.MasterID),
		masker.PhoneField(in.Phone),
	)
	return &merged, nil
}

func (r *Reconciler) create(ctx context.Context, in Identity) (*model.Client, error) {
	tgID := in.TgID
	masterID := in.MasterID
	client := &model.Client{
		TgID:          &tgID,
		Name:          in.Name,
		Phone:         in.Phone,
		Birthday:      in.Birthday,
		RegisteredVia: &masterID,
	}
	if err := r.store.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	r.logger.Info("client created",
		zap.Uint("client_id", client.ID),
		zap.Int64("tg_id", in.TgID),
		zap.Uint("master_id", in.MasterID),
		masker.PhoneField(in.Phone),
	)
	return client, nil
}
