package identity

import (
	"context"
	"errors"
	"fmt"

	"master_crm/internal/domain"
	"master_crm/internal/model"
	"master_crm/internal/service/token"

	"go.uber.org/zap"
)

// Сколько раз перевыпускать токен при коллизии
const tokenAttempts = 3

type MasterProfile struct {
	TgID      int64
	Name      string
	Sphere    *string
	Contacts  *string
	Socials   *string
	WorkHours *string
}

// Registrar заводит мастера с новым токеном-приглашением
type Registrar struct {
	store  domain.IdentityStore
	issuer token.Issuer
	logger *zap.Logger
}

func NewRegistrar(store domain.IdentityStore, issuer token.Issuer, logger *zap.Logger) *Registrar {
	return &Registrar{store: store, issuer: issuer, logger: logger}
}

// RegisterMaster создает мастера. Если мастер с этим tg_id уже есть
// (две регистрации наперегонки), возвращается существующий.
func (r *Registrar) RegisterMaster(ctx context.Context, p MasterProfile) (*model.Master, error) {
	var lastErr error
	for attempt := 1; attempt <= tokenAttempts; attempt++ {
		tok, err := r.issuer.Issue()
		if err != nil {
			return nil, fmt.Errorf("issue invite token: %w", err)
		}

		master := model.NewMaster(p.TgID, p.Name, tok)
		master.Sphere = p.Sphere
		master.Contacts = p.Contacts
		master.Socials = p.Socials
		master.WorkHours = p.WorkHours

		err = r.store.CreateMaster(ctx, master)
		if err == nil {
			r.logger.Info("master registered", zap.Uint("master_id", master.ID), zap.Int64("tg_id", p.TgID))
			return master, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("create master: %w", err)
		}

		// Дубликат: либо этот tg_id уже мастер, либо совпал токен
		existing, findErr := r.store.FindMasterByTgID(ctx, p.TgID)
		if findErr == nil {
			r.logger.Warn("master already registered", zap.Int64("tg_id", p.TgID))
			return existing, nil
		}
		if !errors.Is(findErr, domain.ErrNotFound) {
			return nil, fmt.Errorf("find master by tg_id: %w", findErr)
		}
		r.logger.Warn("invite token collision, reissuing", zap.Int("attempt", attempt))
		lastErr = err
	}
	return nil, fmt.Errorf("create master after %d attempts: %w", tokenAttempts, lastErr)
}
