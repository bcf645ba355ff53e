// Package token выпускает ссылки-приглашения мастеров.
//
// Токен - 16 байт UUIDv4 (122 случайных бита из crypto/rand) в base64 без
// паддинга: 22 символа из алфавита [A-Za-z0-9_-], который Telegram
// принимает в параметре /start.
package token

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

type Issuer interface {
	Issue() (string, error)
}

type RandomIssuer struct {
	newUUID func() (uuid.UUID, error)
}

func NewIssuer() *RandomIssuer {
	return &RandomIssuer{newUUID: uuid.NewRandom}
}

// Issue не проверяет уникальность - это делает вставка в БД.
func (i *RandomIssuer) Issue() (string, error) {
	id, err := i.newUUID()
	if err != nil {
		return "", fmt.Errorf("read random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(id[:]), nil
}
