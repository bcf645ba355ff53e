package flow

const (
	StepName      Step = "name"
	StepSphere    Step = "sphere"
	StepContacts  Step = "contacts"
	StepSocials   Step = "socials"
	StepWorkHours Step = "work_hours"
	StepPhone     Step = "phone"
	StepBirthday  Step = "birthday"
)

// Ограничения длины полей анкет
const (
	MaxNameLen      = 100
	MaxSphereLen    = 200
	MaxContactsLen  = 500
	MaxSocialsLen   = 500
	MaxWorkHoursLen = 200
)

// MasterDraft - анкета мастера. nil - поле пропущено.
type MasterDraft struct {
	Name      string
	Sphere    *string
	Contacts  *string
	Socials   *string
	WorkHours *string
}

// NewMasterMachine: имя -> сфера -> контакты -> соцсети -> режим работы.
// Все, кроме имени, можно пропустить.
func NewMasterMachine() *Machine[MasterDraft] {
	return NewMachine(
		Field[MasterDraft]{
			Step:   StepName,
			Accept: func(d *MasterDraft, in Input) error { return acceptName(&d.Name, StepName, in) },
		},
		optionalText(StepSphere, MaxSphereLen, func(d *MasterDraft) **string { return &d.Sphere }),
		optionalText(StepContacts, MaxContactsLen, func(d *MasterDraft) **string { return &d.Contacts }),
		optionalText(StepSocials, MaxSocialsLen, func(d *MasterDraft) **string { return &d.Socials }),
		optionalText(StepWorkHours, MaxWorkHoursLen, func(d *MasterDraft) **string { return &d.WorkHours }),
	)
}

func acceptName(dst *string, step Step, in Input) error {
	if in.Kind != InputText {
		return &InvalidInputError{Step: step, Reason: "Отправьте имя текстом."}
	}
	name := clip(in.Text, MaxNameLen)
	if name == "" {
		return &InvalidInputError{Step: step, Reason: "Имя не может быть пустым."}
	}
	*dst = name
	return nil
}

// optionalText - необязательное текстовое поле. Пустой текст считается пропуском.
func optionalText(step Step, max int, field func(d *MasterDraft) **string) Field[MasterDraft] {
	return Field[MasterDraft]{
		Step:      step,
		Skippable: true,
		Accept: func(d *MasterDraft, in Input) error {
			if in.Kind != InputText {
				return &InvalidInputError{Step: step, Reason: "Отправьте ответ текстом или нажмите «Пропустить»."}
			}
			value := clip(in.Text, max)
			if value == "" {
				*field(d) = nil
				return nil
			}
			*field(d) = &value
			return nil
		},
		Skip: func(d *MasterDraft) { *field(d) = nil },
	}
}
