package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sdoba/internal/cart"
	"sdoba/internal/checkout"
	"sdoba/internal/guest"
	"sdoba/internal/storage"
	"sdoba/internal/suggest"
)

const sessionCookie = "sid"

// session состояние одного браузера: корзина и реестр гостевых заказов
// живут в KV-хранилище под префиксом сессии, форма и резолвер адресов —
// в памяти процесса
type session struct {
	cart      *cart.Store
	ledger    *guest.Ledger
	form      *checkout.Form
	resolver  *suggest.Resolver
	submitter *checkout.Submitter
}

// session достаёт сессию по cookie, при первом заходе минтит новую
func (s *Server) session(c *gin.Context) *session {
	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		sid = uuid.NewString()
		c.SetCookie(sessionCookie, sid, 0, "/", "", false, true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sid]; ok {
		return sess
	}
	kv := storage.NewNamespaced(s.kv, "session:"+sid)
	sess := &session{
		cart:      cart.NewStore(kv, s.logger),
		ledger:    guest.NewLedger(kv, s.logger),
		form:      checkout.NewForm(),
		resolver:  suggest.NewResolver(s.suggester, s.debounce, s.logger),
		submitter: checkout.NewSubmitter(s.backend, s.logger),
	}
	s.sessions[sid] = sess
	s.logger.Debug("session created", zap.String("sid", sid))
	return sess
}

// bearerToken вытаскивает токен из Authorization; пустая строка — гость
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(h, prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
