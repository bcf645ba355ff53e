// Package flow - линейные машины состояний регистрации.
//
// Машина - это цепочка полей. Step чистая функция: по текущему состоянию и
// входу возвращает новое состояние, ничего не зная о Telegram и БД.
// Хранение незавершенных регистраций - Store.
package flow

import (
	"errors"
	"fmt"
)

// Step - имя поля, которое ожидается от пользователя
type Step string

type InputKind int

const (
	InputText InputKind = iota
	// Контакт, которым поделились кнопкой. Text - номер из контакта.
	InputContact
	InputSkip
)

type Input struct {
	Kind InputKind
	Text string
}

func Text(s string) Input    { return Input{Kind: InputText, Text: s} }
func Contact(p string) Input { return Input{Kind: InputContact, Text: p} }
func Skip() Input            { return Input{Kind: InputSkip} }

var (
	ErrSkipNotAllowed = errors.New("step cannot be skipped")
	ErrUnknownStep    = errors.New("unknown step")
	ErrFinished       = errors.New("flow is already finished")
)

// InvalidInputError - ввод не прошел проверку, шаг не меняется.
// Reason показывается пользователю.
type InvalidInputError struct {
	Step   Step
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Step, e.Reason)
}

// Field - одно поле анкеты.
type Field[D any] struct {
	Step      Step
	Skippable bool
	// Accept проверяет ввод и записывает значение в черновик
	Accept func(draft *D, in Input) error
	// Skip обнуляет поле. nil - ничего не делать.
	Skip func(draft *D)
}

// State - текущий шаг и накопленные поля. Пустой Step - анкета заполнена.
type State[D any] struct {
	Step  Step
	Draft D
}

func (s State[D]) Done() bool { return s.Step == "" }

type Machine[D any] struct {
	fields []Field[D]
	index  map[Step]int
}

func NewMachine[D any](fields ...Field[D]) *Machine[D] {
	if len(fields) == 0 {
		panic("flow: machine without fields")
	}
	index := make(map[Step]int, len(fields))
	for i, f := range fields {
		if _, dup := index[f.Step]; dup {
			panic(fmt.Sprintf("flow: duplicate step %q", f.Step))
		}
		index[f.Step] = i
	}
	return &Machine[D]{fields: fields, index: index}
}

// Begin - начальное состояние с контекстом анкеты (например, мастером клиента)
func (m *Machine[D]) Begin(draft D) State[D] {
	return State[D]{Step: m.fields[0].Step, Draft: draft}
}

func (m *Machine[D]) Skippable(step Step) bool {
	i, ok := m.index[step]
	return ok && m.fields[i].Skippable
}

// Step применяет ввод к текущему полю. При ошибке возвращается исходное состояние.
func (m *Machine[D]) Step(st State[D], in Input) (State[D], error) {
	if st.Done() {
		return st, ErrFinished
	}
	i, ok := m.index[st.Step]
	if !ok {
		return st, fmt.Errorf("%w: %s", ErrUnknownStep, st.Step)
	}
	field := m.fields[i]

	draft := st.Draft
	if in.Kind == InputSkip {
		if !field.Skippable {
			return st, ErrSkipNotAllowed
		}
		if field.Skip != nil {
			field.Skip(&draft)
		}
	} else if err := field.Accept(&draft, in); err != nil {
		return st, err
	}

	next := Step("")
	if i+1 < len(m.fields) {
		next = m.fields[i+1].Step
	}
	return State[D]{Step: next, Draft: draft}, nil
}
