package suggest

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"sdoba/internal/domain"
)

// DefaultDebounce пауза после последнего ввода, по истечении которой
// уходит запрос к геокодеру
const DefaultDebounce = 300 * time.Millisecond

// minQueryLen короче этого подсказки не запрашиваем: слишком шумно
const minQueryLen = 3

const lookupTimeout = 10 * time.Second

// ManualEntryMessage показывается, когда геокодер недоступен.
// Оформление при этом не падает: блокирует только правило
// «адрес должен быть выбран из списка».
const ManualEntryMessage = "Не удалось получить подсказки адресов. Пожалуйста, введите адрес вручную."

// ErrSuperseded возвращается запросу, который перекрыл более свежий ввод
var ErrSuperseded = errors.New("query superseded by newer input")

// Suggester порт геокодера
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]domain.AddressSuggestion, error)
}

type outcome struct {
	suggestions []domain.AddressSuggestion
	err         error
}

type pending struct {
	seq uint64
	ch  chan outcome
}

// Resolver дебаунс-обёртка над геокодером. Каждый ввод получает
// возрастающий номер; применяется и показывается только результат
// последнего номера, запоздавшие ответы отбрасываются.
type Resolver struct {
	mu          sync.Mutex
	suggester   Suggester
	logger      *zap.Logger
	debounce    time.Duration
	timer       *time.Timer
	pending     *pending
	seq         uint64
	suggestions []domain.AddressSuggestion
	selected    *domain.AddressSuggestion
	message     string
}

func NewResolver(suggester Suggester, debounce time.Duration, logger *zap.Logger) *Resolver {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Resolver{suggester: suggester, debounce: debounce, logger: logger}
}

// Query регистрирует новый ввод адресной строки и ждёт исход именно этого
// ввода: список подсказок, ошибку геокодера или ErrSuperseded, если за время
// ожидания пользователь напечатал что-то ещё. Ввод короче трёх символов
// сразу чистит список без похода в сеть.
func (r *Resolver) Query(ctx context.Context, text string) ([]domain.AddressSuggestion, error) {
	ch := r.schedule(text)
	select {
	case out := <-ch:
		return out.suggestions, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Resolver) schedule(text string) chan outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	seq := r.seq
	r.cancelPendingLocked()

	ch := make(chan outcome, 1)
	if utf8.RuneCountInString(text) < minQueryLen {
		r.suggestions = nil
		r.message = ""
		ch <- outcome{}
		return ch
	}

	p := &pending{seq: seq, ch: ch}
	r.pending = p
	r.timer = time.AfterFunc(r.debounce, func() { r.lookup(seq, text, p) })
	return ch
}

func (r *Resolver) lookup(seq uint64, text string, p *pending) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	results, err := r.suggester.Suggest(ctx, text)

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		// запоздавший ответ устаревшего запроса не должен перетереть свежие подсказки
		notify(p, outcome{err: ErrSuperseded})
		return
	}
	r.pending = nil
	if err != nil {
		r.logger.Warn("address lookup failed", zap.String("query", text), zap.Error(err))
		r.suggestions = nil
		r.message = ManualEntryMessage
		notify(p, outcome{err: err})
		return
	}
	r.suggestions = results
	r.message = ""
	notify(p, outcome{suggestions: results})
}

// Select фиксирует выбор пользователя: список гаснет, запланированный
// или летящий запрос теряет силу
func (r *Resolver) Select(s domain.AddressSuggestion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.cancelPendingLocked()
	r.selected = &s
	r.suggestions = nil
	r.message = ""
}

// InvalidateSelection сбрасывает выбранный адрес: текст правили после
// выбора, значит координаты больше не соответствуют строке
func (r *Resolver) InvalidateSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = nil
}

// Selected возвращает выбранную подсказку или nil
func (r *Resolver) Selected() *domain.AddressSuggestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selected == nil {
		return nil
	}
	cp := *r.selected
	return &cp
}

// Suggestions текущий видимый список
func (r *Resolver) Suggestions() []domain.AddressSuggestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AddressSuggestion, len(r.suggestions))
	copy(out, r.suggestions)
	return out
}

// Message пользовательское сообщение последней неудачи, пустая строка если её нет
func (r *Resolver) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

// Close останавливает отложенный таймер
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelPendingLocked()
}

// cancelPendingLocked вызывается под локом
func (r *Resolver) cancelPendingLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.pending != nil {
		notify(r.pending, outcome{err: ErrSuperseded})
		r.pending = nil
	}
}

// notify не блокируется: канал буферизован на один исход, лишние попытки
// (отменили на новом вводе, а потом долетел и сам ответ) просто теряются
func notify(p *pending, out outcome) {
	select {
	case p.ch <- out:
	default:
	}
}
