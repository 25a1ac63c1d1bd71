package guest

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"sdoba/internal/domain"
	"sdoba/internal/storage"
)

const storageKey = "guestOrders"

// Ledger список заказов, оформленных без аккаунта в этом браузере.
// По нему гость отслеживает статусы и получает право оставить отзыв.
// Записи не протухают: чистятся только вместе с данными сайта.
type Ledger struct {
	mu     sync.Mutex
	kv     storage.Store
	logger *zap.Logger
}

func NewLedger(kv storage.Store, logger *zap.Logger) *Ledger {
	return &Ledger{kv: kv, logger: logger}
}

// Record дописывает заказ в конец списка. Повторная запись того же
// идентификатора — no-op: защита от двойного срабатывания на странице успеха.
func (l *Ledger) Record(orderID string, contact domain.ContactInfo) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	records := l.load()
	for _, r := range records {
		if r.ID == orderID {
			return nil
		}
	}
	records = append(records, domain.GuestOrderRecord{ID: orderID, ContactInfo: contact})
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return l.kv.Set(storageKey, data)
}

// List возвращает все записи в порядке оформления
func (l *Ledger) List() []domain.GuestOrderRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// CanReview гость может оставить отзыв, если оформил хотя бы один заказ
func (l *Ledger) CanReview() bool {
	return len(l.List()) > 0
}

// LastContactName имя из последней записи — под ним публикуется гостевой отзыв
func (l *Ledger) LastContactName() string {
	records := l.List()
	if len(records) == 0 {
		return ""
	}
	return records[len(records)-1].ContactInfo.Name
}

// load вызывается под локом; битое или отсутствующее состояние — пустой список
func (l *Ledger) load() []domain.GuestOrderRecord {
	data, err := l.kv.Get(storageKey)
	if err != nil {
		if err != storage.ErrNotFound {
			l.logger.Warn("guest ledger read failed", zap.Error(err))
		}
		return nil
	}
	var records []domain.GuestOrderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		l.logger.Warn("guest ledger is malformed, treating as empty", zap.Error(err))
		return nil
	}
	return records
}
