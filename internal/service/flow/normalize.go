package flow

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	ErrNoDigits      = errors.New("phone has no digits")
	ErrTooManyDigits = errors.New("phone has too many digits")
)

// MaxPhoneDigits - длина номера по E.164
const MaxPhoneDigits = 15

// NormalizePhone приводит номер к виду +7XXXXXXXXXX.
// 8XXXXXXXXXX и XXXXXXXXXX считаются российскими. Остальное - просто "+" и цифры.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", ErrNoDigits
	}
	if len(digits) > MaxPhoneDigits {
		return "", ErrTooManyDigits
	}

	switch len(digits) {
	case 11:
		if digits[0] == '8' {
			digits = "7" + digits[1:]
		}
	case 10:
		digits = "7" + digits
	}
	return "+" + digits, nil
}

// ParseDate разбирает ДД.ММ.ГГГГ, ДД/ММ/ГГГГ, ДД-ММ-ГГГГ и то же без года
// (тогда год берется из now). Двузначный год: <50 - 20xx, иначе 19xx.
// Несуществующие даты (31.02) и годы вне 1..9999 не принимаются.
func ParseDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, sep := range []string{".", "/", "-"} {
		if !strings.Contains(raw, sep) {
			continue
		}
		parts := strings.Split(raw, sep)
		if len(parts) < 2 {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		year := now.Year()
		if len(parts) > 2 {
			if year, err = strconv.Atoi(strings.TrimSpace(parts[2])); err != nil {
				continue
			}
		}
		if year < 100 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}

		if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
			continue
		}
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date нормализует 31.02 в 03.03
		if date.Day() != day || int(date.Month()) != month {
			continue
		}
		return date, true
	}
	return time.Time{}, false
}

// clip обрезает пробелы по краям и длину до max символов
func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > max {
		s = strings.TrimRightFunc(string(runes[:max]), unicode.IsSpace)
	}
	return s
}
