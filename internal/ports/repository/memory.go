package repository

import (
	"context"
	"sync"
	"time"

	"punchclock.service/internal/core/model"
)

type deliveryKey struct {
	date    time.Time
	channel model.DeliveryChannel
}

// MemoryRepository keeps everything in process memory. Used for tests and DB_DRIVER=memory.
type MemoryRepository struct {
	mu         sync.RWMutex
	journals   map[time.Time]*model.DayJournal
	deliveries map[deliveryKey]model.Delivery
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		journals:   make(map[time.Time]*model.DayJournal),
		deliveries: make(map[deliveryKey]model.Delivery),
	}
}

func (r *MemoryRepository) FindByDate(_ context.Context, date time.Time) (*model.DayJournal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.journals[model.DateOf(date)]
	if !ok {
		return nil, nil
	}
	return j.Clone(), nil
}

func (r *MemoryRepository) Upsert(_ context.Context, j *model.DayJournal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.journals[j.Date]
	switch {
	case j.Version <= 1 && exists:
		return ErrVersionConflict
	case j.Version > 1 && (!exists || stored.Version != j.Version-1):
		return ErrVersionConflict
	}

	r.journals[j.Date] = j.Clone()
	return nil
}

func (r *MemoryRepository) GetDelivery(_ context.Context, date time.Time, channel model.DeliveryChannel) (*model.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.deliveries[deliveryKey{model.DateOf(date), channel}]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *MemoryRepository) UpdateDelivery(_ context.Context, date time.Time, channel model.DeliveryChannel, status model.DeliveryStatus, retryCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := deliveryKey{model.DateOf(date), channel}
	r.deliveries[key] = model.Delivery{
		Date:       key.date,
		Channel:    channel,
		Status:     status,
		RetryCount: retryCount,
		UpdatedAt:  time.Now().UTC(),
	}
	return nil
}
