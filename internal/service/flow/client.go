package flow

import (
	"errors"
	"time"
)

// BirthdayPolicy - что делать с датой рождения, которую не удалось разобрать
type BirthdayPolicy string

const (
	// Считать, что дату пропустили
	BirthdaySkipInvalid BirthdayPolicy = "skip"
	// Переспросить
	BirthdayReprompt BirthdayPolicy = "reprompt"
)

// ClientDraft - анкета клиента. MasterID задается при старте по ссылке и не меняется.
type ClientDraft struct {
	MasterID uint
	Name     string
	Phone    string
	Birthday *time.Time
}

// NewClientMachine: имя -> телефон -> день рождения (можно пропустить).
func NewClientMachine(policy BirthdayPolicy, now func() time.Time) *Machine[ClientDraft] {
	if now == nil {
		now = time.Now
	}
	return NewMachine(
		Field[ClientDraft]{
			Step:   StepName,
			Accept: func(d *ClientDraft, in Input) error { return acceptName(&d.Name, StepName, in) },
		},
		Field[ClientDraft]{
			Step: StepPhone,
			// Контакт и текст нормализуются одинаково
			Accept: func(d *ClientDraft, in Input) error {
				phone, err := NormalizePhone(in.Text)
				if errors.Is(err, ErrTooManyDigits) {
					return &InvalidInputError{Step: StepPhone, Reason: "Слишком длинный номер. Отправьте номер телефона без лишних цифр."}
				}
				if err != nil {
					return &InvalidInputError{Step: StepPhone, Reason: "Не похоже на номер телефона. Отправьте номер цифрами или нажмите «Поделиться контактом»."}
				}
				d.Phone = phone
				return nil
			},
		},
		Field[ClientDraft]{
			Step:      StepBirthday,
			Skippable: true,
			Accept: func(d *ClientDraft, in Input) error {
				if in.Kind != InputText {
					return &InvalidInputError{Step: StepBirthday, Reason: "Отправьте дату текстом, например 17.05 или 17.05.1990."}
				}
				date, ok := ParseDate(in.Text, now())
				if !ok {
					if policy == BirthdayReprompt {
						return &InvalidInputError{Step: StepBirthday, Reason: "Не удалось разобрать дату. Формат: ДД.ММ или ДД.ММ.ГГГГ."}
					}
					d.Birthday = nil
					return nil
				}
				d.Birthday = &date
				return nil
			},
			Skip: func(d *ClientDraft) { d.Birthday = nil },
		},
	)
}
