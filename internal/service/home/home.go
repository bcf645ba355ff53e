// Package home собирает данные для главного экрана мастера и клиента.
package home

import (
	"context"
	"errors"
	"fmt"
	"time"

	"master_crm/internal/domain"
	"master_crm/internal/model"
)

type MasterHome struct {
	Master     *model.Master
	InviteLink string
	Today      time.Time
	// Записи на сегодня. Заказов пока нет, список всегда пустой.
	Schedule []string
}

type ClientHome struct {
	Client       *model.Client
	Master       *model.Master
	Relationship *model.MasterClient
}

type Assembler struct {
	store    domain.IdentityStore
	username func() string
	now      func() time.Time
}

// NewAssembler: username - имя клиентского бота для ссылки-приглашения.
// Функция, потому что имя может стать известно только после авторизации бота.
func NewAssembler(store domain.IdentityStore, username func() string, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{store: store, username: username, now: now}
}

func InviteLink(botUsername, token string) string {
	return fmt.Sprintf("t.me/%s?start=%s", botUsername, token)
}

func (a *Assembler) InviteLink(master *model.Master) string {
	return InviteLink(a.username(), master.InviteToken)
}

// ForMaster - главный экран мастера по tg_id. ErrNotRegistered, если мастера нет.
func (a *Assembler) ForMaster(ctx context.Context, tgID int64) (*MasterHome, error) {
	master, err := a.store.FindMasterByTgID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("find master: %w", err)
	}
	return a.MasterSnapshot(master), nil
}

func (a *Assembler) MasterSnapshot(master *model.Master) *MasterHome {
	return &MasterHome{
		Master:     master,
		InviteLink: a.InviteLink(master),
		Today:      a.now(),
	}
}

// ForClient - главный экран клиента по tg_id. Мастер берется из RegisteredVia,
// а если клиента привязали по телефону (RegisteredVia пуст) - из последней связи.
// ErrNotRegistered, если клиента или мастера нет.
func (a *Assembler) ForClient(ctx context.Context, tgID int64) (*ClientHome, error) {
	client, err := a.store.FindClientByTgID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("find client: %w", err)
	}

	var rel *model.MasterClient
	if client.RegisteredVia != nil {
		rel, err = a.store.FindRelationship(ctx, *client.RegisteredVia, client.ID)
	} else {
		rel, err = a.store.FindLatestRelationship(ctx, client.ID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("find relationship: %w", err)
	}

	return a.ClientSnapshot(ctx, client, rel)
}

// ClientSnapshot дочитывает мастера для уже известной пары клиент-связь
func (a *Assembler) ClientSnapshot(ctx context.Context, client *model.Client, rel *model.MasterClient) (*ClientHome, error) {
	master, err := a.store.FindMasterByID(ctx, rel.MasterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("find master: %w", err)
	}
	return &ClientHome{Client: client, Master: master, Relationship: rel}, nil
}

// IsRegisteredClient - клиент уже прошел регистрацию в боте
func IsRegisteredClient(client *model.Client) bool {
	return client != nil && client.RegisteredVia != nil
}
