package flow

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterMachine_RequiredThenSkipAll(t *testing.T) {
	m := NewMasterMachine()
	st := m.Begin(MasterDraft{})
	require.Equal(t, StepName, st.Step)

	st, err := m.Step(st, Text("  Анна  "))
	require.NoError(t, err)
	assert.Equal(t, StepSphere, st.Step)

	for _, want := range []Step{StepContacts, StepSocials, StepWorkHours, ""} {
		st, err = m.Step(st, Skip())
		require.NoError(t, err)
		assert.Equal(t, want, st.Step)
	}

	assert.True(t, st.Done())
	assert.Equal(t, "Анна", st.Draft.Name)
	assert.Nil(t, st.Draft.Sphere)
	assert.Nil(t, st.Draft.Contacts)
	assert.Nil(t, st.Draft.Socials)
	assert.Nil(t, st.Draft.WorkHours)
}

func TestMasterMachine_AllFields(t *testing.T) {
	m := NewMasterMachine()
	st := m.Begin(MasterDraft{})
	var err error
	for _, in := range []string{"Анна", "маникюр", "+79120000000", "@anna_nails", "пн-пт 9-19"} {
		st, err = m.Step(st, Text(in))
		require.NoError(t, err)
	}
	require.True(t, st.Done())
	assert.Equal(t, "маникюр", *st.Draft.Sphere)
	assert.Equal(t, "+79120000000", *st.Draft.Contacts)
	assert.Equal(t, "@anna_nails", *st.Draft.Socials)
	assert.Equal(t, "пн-пт 9-19", *st.Draft.WorkHours)
}

func TestMasterMachine_NameCannotBeSkipped(t *testing.T) {
	m := NewMasterMachine()
	st := m.Begin(MasterDraft{})

	next, err := m.Step(st, Skip())
	assert.ErrorIs(t, err, ErrSkipNotAllowed)
	assert.Equal(t, st, next)
	assert.False(t, m.Skippable(StepName))
	assert.True(t, m.Skippable(StepSphere))
}

func TestMasterMachine_EmptyNameReprompts(t *testing.T) {
	m := NewMasterMachine()
	st := m.Begin(MasterDraft{})

	next, err := m.Step(st, Text("   "))
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, StepName, invalid.Step)
	assert.Equal(t, StepName, next.Step)
}

func TestMasterMachine_Caps(t *testing.T) {
	m := NewMasterMachine()
	st := m.Begin(MasterDraft{})
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'ж'
	}

	st, err := m.Step(st, Text(string(long)))
	require.NoError(t, err)
	assert.Len(t, []rune(st.Draft.Name), MaxNameLen)

	st, err = m.Step(st, Text(string(long)))
	require.NoError(t, err)
	assert.Len(t, []rune(*st.Draft.Sphere), MaxSphereLen)
}

func TestClientMachine_ContactAndTextConverge(t *testing.T) {
	m := NewClientMachine(BirthdaySkipInvalid, nil)

	viaContact := m.Begin(ClientDraft{MasterID: 7})
	viaContact, _ = m.Step(viaContact, Text("Иван"))
	viaContact, err := m.Step(viaContact, Contact("79123456789"))
	require.NoError(t, err)

	viaText := m.Begin(ClientDraft{MasterID: 7})
	viaText, _ = m.Step(viaText, Text("Иван"))
	viaText, err = m.Step(viaText, Text("8 (912) 345-67-89"))
	require.NoError(t, err)

	assert.Equal(t, StepBirthday, viaContact.Step)
	assert.Equal(t, viaContact.Draft.Phone, viaText.Draft.Phone)
	assert.Equal(t, uint(7), viaText.Draft.MasterID)
}

func TestClientMachine_PhoneRequired(t *testing.T) {
	m := NewClientMachine(BirthdaySkipInvalid, nil)
	st := m.Begin(ClientDraft{MasterID: 1})
	st, _ = m.Step(st, Text("Иван"))

	_, err := m.Step(st, Skip())
	assert.ErrorIs(t, err, ErrSkipNotAllowed)

	next, err := m.Step(st, Text("нет телефона"))
	var invalid *InvalidInputError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, StepPhone, next.Step)

	// слишком длинный номер не пройдет в базу, переспрашиваем
	next, err = m.Step(st, Contact(strings.Repeat("9", 40)))
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, StepPhone, next.Step)
	assert.Empty(t, next.Draft.Phone)
}

func TestClientMachine_BirthdayPolicy(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	atBirthday := func(m *Machine[ClientDraft]) State[ClientDraft] {
		st := m.Begin(ClientDraft{MasterID: 1})
		st, _ = m.Step(st, Text("Иван"))
		st, _ = m.Step(st, Text("79123456789"))
		return st
	}

	skip := NewClientMachine(BirthdaySkipInvalid, now)
	st, err := skip.Step(atBirthday(skip), Text("32.13"))
	require.NoError(t, err)
	assert.True(t, st.Done())
	assert.Nil(t, st.Draft.Birthday)

	st, err = skip.Step(atBirthday(skip), Text("01.01.10000"))
	require.NoError(t, err)
	assert.True(t, st.Done())
	assert.Nil(t, st.Draft.Birthday)

	reprompt := NewClientMachine(BirthdayReprompt, now)
	st, err = reprompt.Step(atBirthday(reprompt), Text("32.13"))
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, StepBirthday, st.Step)

	st, err = reprompt.Step(st, Text("17.05"))
	require.NoError(t, err)
	require.True(t, st.Done())
	assert.Equal(t, time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC), *st.Draft.Birthday)
}

func TestClientMachine_SkipBirthday(t *testing.T) {
	m := NewClientMachine(BirthdaySkipInvalid, nil)
	st := m.Begin(ClientDraft{MasterID: 1})
	st, _ = m.Step(st, Text("Иван"))
	st, _ = m.Step(st, Text("79123456789"))

	st, err := m.Step(st, Skip())
	require.NoError(t, err)
	assert.True(t, st.Done())
	assert.Nil(t, st.Draft.Birthday)
}

func TestMachine_FinishedAndUnknown(t *testing.T) {
	m := NewMasterMachine()

	_, err := m.Step(State[MasterDraft]{}, Text("x"))
	assert.ErrorIs(t, err, ErrFinished)

	_, err = m.Step(State[MasterDraft]{Step: "nope"}, Text("x"))
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestStore(t *testing.T) {
	s := NewStore[ClientDraft](0)

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Set(1, State[ClientDraft]{Step: StepPhone, Draft: ClientDraft{MasterID: 5, Name: "Иван"}})
	s.Set(2, State[ClientDraft]{Step: StepName, Draft: ClientDraft{MasterID: 6}})

	st, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, StepPhone, st.Step)
	assert.Equal(t, uint(5), st.Draft.MasterID)

	s.Clear(1)
	_, ok = s.Get(1)
	assert.False(t, ok)

	// чужая анкета не тронута
	st, ok = s.Get(2)
	require.True(t, ok)
	assert.Equal(t, uint(6), st.Draft.MasterID)
}

func TestStore_TTL(t *testing.T) {
	s := NewStore[MasterDraft](20 * time.Millisecond)
	s.Set(1, State[MasterDraft]{Step: StepName})
	time.Sleep(40 * time.Millisecond)
	_, ok := s.Get(1)
	assert.False(t, ok)
}
