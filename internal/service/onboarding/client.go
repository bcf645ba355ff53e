package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"master_crm/internal/domain"
	"master_crm/internal/model"
	"master_crm/internal/service/flow"
	"master_crm/internal/service/home"
	"master_crm/internal/service/identity"

	"go.uber.org/zap"
)

type ClientFront struct {
	machine    *flow.Machine[flow.ClientDraft]
	flows      *flow.Store[flow.ClientDraft]
	store      domain.IdentityStore
	reconciler *identity.Reconciler
	home       *home.Assembler
	logger     *zap.Logger

	// Сигнал выгрузке в таблицу, может быть nil
	forceUpdate chan struct{}
}

func NewClientFront(
	store domain.IdentityStore,
	flows *flow.Store[flow.ClientDraft],
	reconciler *identity.Reconciler,
	assembler *home.Assembler,
	policy flow.BirthdayPolicy,
	now func() time.Time,
	forceUpdate chan struct{},
	logger *zap.Logger,
) *ClientFront {
	return &ClientFront{
		machine:     flow.NewClientMachine(policy, now),
		flows:       flows,
		store:       store,
		reconciler:  reconciler,
		home:        assembler,
		logger:      logger,
		forceUpdate: forceUpdate,
	}
}

func (f *ClientFront) active(userID int64) bool {
	_, ok := f.flows.Get(userID)
	return ok
}

func (f *ClientFront) fail(userID int64, text string, err error) (Outcome, error) {
	f.logger.Error("client front error", zap.Int64("user_id", userID), zap.Error(err))
	return Outcome{Replies: []Reply{{Text: text}}, Active: f.active(userID)}, err
}

// Start - /start с токеном из ссылки мастера.
// Зарегистрированный клиент попадает домой независимо от токена.
// Без токена или с чужим токеном анкета не начинается и текущая не трогается.
func (f *ClientFront) Start(ctx context.Context, userID int64, token string) (Outcome, error) {
	client, err := f.store.FindClientByTgID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return f.fail(userID, textTemporaryError, err)
	}
	if home.IsRegisteredClient(client) {
		h, err := f.home.ForClient(ctx, userID)
		switch {
		case err == nil:
			f.flows.Clear(userID)
			return Outcome{Replies: []Reply{ClientHomeReply(h)}}, nil
		case !errors.Is(err, domain.ErrNotRegistered):
			return f.fail(userID, textTemporaryError, err)
		}
		// связь потерялась - пусть пройдет регистрацию по ссылке еще раз
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return Outcome{Replies: []Reply{{Text: textClientNoToken}}, Active: f.active(userID)}, nil
	}

	master, err := f.masterByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			f.logger.Info("unknown invite token", zap.Int64("user_id", userID))
			return Outcome{Replies: []Reply{{Text: textClientInvalidToken}}, Active: f.active(userID)}, nil
		}
		return f.fail(userID, textTemporaryError, err)
	}

	f.flows.Set(userID, f.machine.Begin(flow.ClientDraft{MasterID: master.ID}))
	return Outcome{
		Replies: []Reply{{Text: clientWelcomeText(master.Name), Keyboard: KeyboardRemove}},
		Active:  true,
	}, nil
}

// masterByToken - мастер по токену из ссылки. ErrInvalidToken, если такого нет.
func (f *ClientFront) masterByToken(ctx context.Context, token string) (*model.Master, error) {
	master, err := f.store.FindMasterByInviteToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("find master by token: %w", err)
	}
	return master, nil
}

func (f *ClientFront) Home(ctx context.Context, userID int64) (Outcome, error) {
	h, err := f.home.ForClient(ctx, userID)
	switch {
	case err == nil:
		f.flows.Clear(userID)
		return Outcome{Replies: []Reply{ClientHomeReply(h)}}, nil
	case errors.Is(err, domain.ErrNotRegistered):
		return Outcome{Replies: []Reply{{Text: textClientNotRegistered}}, Active: f.active(userID)}, nil
	default:
		return f.fail(userID, textTemporaryError, err)
	}
}

// Handle - ввод, контакт или пропуск поля анкеты
func (f *ClientFront) Handle(ctx context.Context, userID int64, in flow.Input) (Outcome, error) {
	st, ok := f.flows.Get(userID)
	if !ok {
		// анкеты нет: зарегистрированному показываем дом, остальным подсказку
		return f.Home(ctx, userID)
	}

	next, err := f.machine.Step(st, in)
	if err != nil {
		return f.reject(userID, st, err)
	}
	if !next.Done() {
		f.flows.Set(userID, next)
		return Outcome{Replies: clientPrompt(next), Active: true}, nil
	}

	// Анкета очищается в любом случае, даже если запись в БД не удалась
	f.flows.Clear(userID)
	d := next.Draft
	phone := d.Phone
	client, rel, err := f.reconciler.Reconcile(ctx, identity.Identity{
		MasterID: d.MasterID,
		TgID:     userID,
		Name:     d.Name,
		Phone:    &phone,
		Birthday: d.Birthday,
	})
	if err != nil {
		return f.fail(userID, textClientRegistrationFailed, err)
	}

	select {
	case f.forceUpdate <- struct{}{}:
	default:
	}

	done := Reply{Text: textClientDone, Keyboard: KeyboardRemove}
	snap, err := f.home.ClientSnapshot(ctx, client, rel)
	if err != nil {
		f.logger.Error("client home after registration", zap.Int64("user_id", userID), zap.Error(err))
		return Outcome{Replies: []Reply{done}}, nil
	}
	return Outcome{Replies: []Reply{done, ClientHomeReply(snap)}}, nil
}

func (f *ClientFront) reject(userID int64, st flow.State[flow.ClientDraft], err error) (Outcome, error) {
	var invalid *flow.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return Outcome{Replies: []Reply{{Text: invalid.Reason, Keyboard: clientKeyboard(st.Step)}}, Active: true}, nil
	case errors.Is(err, flow.ErrSkipNotAllowed):
		return Outcome{Replies: []Reply{{Text: textSkipNotAllowed}}, Active: true}, nil
	default:
		return f.fail(userID, textTemporaryError, err)
	}
}

func clientKeyboard(step flow.Step) Keyboard {
	switch step {
	case flow.StepPhone:
		return KeyboardShareContact
	case flow.StepBirthday:
		return KeyboardSkip
	}
	return KeyboardNone
}

func clientPrompt(st flow.State[flow.ClientDraft]) []Reply {
	switch st.Step {
	case flow.StepPhone:
		return []Reply{{
			Text: "Приятно познакомиться, " + st.Draft.Name + "!\n\n" +
				"📱 Поделитесь своим номером телефона.\n" +
				"Это нужно для связи с мастером.",
			Keyboard: KeyboardShareContact,
		}}
	case flow.StepBirthday:
		return []Reply{
			{
				Text: "🎂 Когда у вас день рождения?\n" +
					"(в формате ДД.ММ или ДД.ММ.ГГГГ)\n\n" +
					"Мастер сможет поздравить вас и начислить бонусы!",
				Keyboard: KeyboardRemove,
			},
			{Text: "Или пропустите этот шаг:", Keyboard: KeyboardSkip},
		}
	}
	return []Reply{{Text: "📝 Как вас зовут?"}}
}
