package carrier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// AuthSession — кэш токена одного адаптера. Это единственное
// разделяемое мутабельное состояние на инстанс адаптера: поля под
// мьютексом, а сам refresh идёт через singleflight, чтобы два
// конкурентных вызова с истёкшим токеном не дёргали auth-endpoint
// дважды.
type AuthSession struct {
	mu     sync.Mutex
	sf     singleflight.Group
	token  string
	expiry time.Time
	margin time.Duration
}

// NewAuthSession создаёт сессию с запасом 30 секунд до истечения:
// токен на грани истечения считается протухшим, чтобы не словить 401
// посреди запроса.
func NewAuthSession() *AuthSession {
	return &AuthSession{margin: 30 * time.Second}
}

// Token возвращает живой токен, при необходимости вызвав refresh.
// Конкурентные вызовы с протухшим токеном ждут один общий refresh.
func (s *AuthSession) Token(ctx context.Context, refresh func(ctx context.Context) (string, time.Time, error)) (string, error) {
	if tok, ok := s.current(); ok {
		return tok, nil
	}

	v, err, _ := s.sf.Do("token", func() (any, error) {
		// Пока ждали очередь, токен мог уже обновиться.
		if tok, ok := s.current(); ok {
			return tok, nil
		}
		tok, expiry, err := refresh(ctx)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.token, s.expiry = tok, expiry
		s.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Valid сообщает, есть ли сейчас живой токен (была ли успешная
// аутентификация).
func (s *AuthSession) Valid() bool {
	_, ok := s.current()
	return ok
}

// Invalidate сбрасывает токен (например, после 401 от источника).
func (s *AuthSession) Invalidate() {
	s.mu.Lock()
	s.token, s.expiry = "", time.Time{}
	s.mu.Unlock()
}

func (s *AuthSession) current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || !time.Now().Before(s.expiry.Add(-s.margin)) {
		return "", false
	}
	return s.token, true
}
