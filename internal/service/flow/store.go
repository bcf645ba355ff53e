package flow

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store хранит незавершенные анкеты в памяти процесса, по одной на пользователя.
// Отсутствие записи - пользователь не проходит регистрацию.
// После рестарта все теряется: пользователь просто начнет заново.
type Store[D any] struct {
	cache *gocache.Cache
}

// NewStore: ttl=0 - записи не протухают.
func NewStore[D any](ttl time.Duration) *Store[D] {
	if ttl <= 0 {
		return &Store[D]{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Store[D]{cache: gocache.New(ttl, ttl)}
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *Store[D]) Get(userID int64) (State[D], bool) {
	x, found := s.cache.Get(key(userID))
	if !found {
		return State[D]{}, false
	}
	st, ok := x.(State[D])
	return st, ok
}

// Set перезаписывает анкету пользователя целиком
func (s *Store[D]) Set(userID int64, st State[D]) {
	s.cache.Set(key(userID), st, gocache.DefaultExpiration)
}

func (s *Store[D]) Clear(userID int64) {
	s.cache.Delete(key(userID))
}
