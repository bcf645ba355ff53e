package onboarding

import (
	"context"
	"errors"

	"master_crm/internal/domain"
	"master_crm/internal/service/flow"
	"master_crm/internal/service/home"
	"master_crm/internal/service/identity"

	"go.uber.org/zap"
)

type MasterFront struct {
	machine   *flow.Machine[flow.MasterDraft]
	flows     *flow.Store[flow.MasterDraft]
	registrar *identity.Registrar
	home      *home.Assembler
	logger    *zap.Logger
}

func NewMasterFront(
	flows *flow.Store[flow.MasterDraft],
	registrar *identity.Registrar,
	assembler *home.Assembler,
	logger *zap.Logger,
) *MasterFront {
	return &MasterFront{
		machine:   flow.NewMasterMachine(),
		flows:     flows,
		registrar: registrar,
		home:      assembler,
		logger:    logger,
	}
}

func (f *MasterFront) active(userID int64) bool {
	_, ok := f.flows.Get(userID)
	return ok
}

func (f *MasterFront) fail(userID int64, text string, err error) (Outcome, error) {
	f.logger.Error("master front error", zap.Int64("user_id", userID), zap.Error(err))
	return Outcome{Replies: []Reply{{Text: text}}, Active: f.active(userID)}, err
}

// Start: зарегистрированный мастер сразу попадает домой,
// остальные начинают анкету заново (старая незавершенная затирается).
func (f *MasterFront) Start(ctx context.Context, userID int64) (Outcome, error) {
	h, err := f.home.ForMaster(ctx, userID)
	if err == nil {
		f.flows.Clear(userID)
		return Outcome{Replies: []Reply{MasterHomeReply(h)}}, nil
	}
	if !errors.Is(err, domain.ErrNotRegistered) {
		return f.fail(userID, textTemporaryError, err)
	}

	f.flows.Set(userID, f.machine.Begin(flow.MasterDraft{}))
	return Outcome{
		Replies: []Reply{{Text: textMasterWelcome, Keyboard: KeyboardRemove}},
		Active:  true,
	}, nil
}

func (f *MasterFront) Home(ctx context.Context, userID int64) (Outcome, error) {
	h, err := f.home.ForMaster(ctx, userID)
	switch {
	case err == nil:
		f.flows.Clear(userID)
		return Outcome{Replies: []Reply{MasterHomeReply(h)}}, nil
	case errors.Is(err, domain.ErrNotRegistered):
		return Outcome{Replies: []Reply{{Text: textMasterNotRegistered}}, Active: f.active(userID)}, nil
	default:
		return f.fail(userID, textTemporaryError, err)
	}
}

// Handle - ввод или пропуск поля анкеты
func (f *MasterFront) Handle(ctx context.Context, userID int64, in flow.Input) (Outcome, error) {
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
		return Outcome{Replies: masterPrompt(next), Active: true}, nil
	}

	// Анкета очищается в любом случае, даже если запись в БД не удалась
	f.flows.Clear(userID)
	d := next.Draft
	master, err := f.registrar.RegisterMaster(ctx, identity.MasterProfile{
		TgID:      userID,
		Name:      d.Name,
		Sphere:    d.Sphere,
		Contacts:  d.Contacts,
		Socials:   d.Socials,
		WorkHours: d.WorkHours,
	})
	if err != nil {
		return f.fail(userID, textRegistrationFailed, err)
	}

	snap := f.home.MasterSnapshot(master)
	return Outcome{Replies: []Reply{
		{Text: masterDoneText(snap.InviteLink), Keyboard: KeyboardRemove},
		MasterHomeReply(snap),
	}}, nil
}

func (f *MasterFront) reject(userID int64, st flow.State[flow.MasterDraft], err error) (Outcome, error) {
	var invalid *flow.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return Outcome{Replies: []Reply{{Text: invalid.Reason, Keyboard: masterKeyboard(st.Step)}}, Active: true}, nil
	case errors.Is(err, flow.ErrSkipNotAllowed):
		return Outcome{Replies: []Reply{{Text: textSkipNotAllowed}}, Active: true}, nil
	default:
		return f.fail(userID, textTemporaryError, err)
	}
}

func masterKeyboard(step flow.Step) Keyboard {
	if step == flow.StepName {
		return KeyboardNone
	}
	return KeyboardSkip
}

func masterPrompt(st flow.State[flow.MasterDraft]) []Reply {
	var text string
	switch st.Step {
	case flow.StepName:
		text = "📝 Введите ваше имя или псевдоним:"
	case flow.StepSphere:
		text = "Отлично, " + st.Draft.Name + "!\n\n" +
			"🔧 Укажите вашу сферу деятельности:\n" +
			"(например: клининг, сантехника, электрика, маникюр)"
	case flow.StepContacts:
		text = "📞 Введите контакты для клиентов:\n" +
			"(телефон, мессенджеры, email)"
	case flow.StepSocials:
		text = "🔗 Укажите ссылки на соцсети и каналы:\n" +
			"(Instagram, Telegram-канал, VK и т.д.)"
	case flow.StepWorkHours:
		text = "🕐 Укажите режим работы:\n" +
			"(например: пн-пт 9:00-19:00, сб 10:00-16:00)"
	}
	return []Reply{{Text: text, Keyboard: masterKeyboard(st.Step)}}
}
