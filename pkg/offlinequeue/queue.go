// Package offlinequeue provides a durable, local FIFO for write operations
// captured while the record store is unreachable. Queued mutations survive
// process restarts and are replayed in capture order when connectivity
// returns; each carries an idempotency key so a replay that raced a
// successful original is not applied twice.
package offlinequeue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Mutation is one queued write operation. Payload is the serialized request
// body exactly as it would have been sent.
type Mutation struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	IdempotencyKey string     `gorm:"size:64;uniqueIndex;not null" json:"idempotency_key"`
	Method         string     `gorm:"size:10;not null" json:"method"`
	Endpoint       string     `gorm:"size:255;not null" json:"endpoint"`
	Payload        []byte     `gorm:"type:blob" json:"payload"`
	Attempts       int        `gorm:"default:0" json:"attempts"`
	LastError      *string    `gorm:"type:text" json:"last_error,omitempty"`
	LastTriedAt    *time.Time `json:"last_tried_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName returns the table name for the Mutation model
func (Mutation) TableName() string {
	return "queued_mutations"
}

// Sender replays one mutation against the record store. A nil error removes
// the mutation from the queue; an error keeps it for the next drain.
type Sender interface {
	Send(ctx context.Context, m *Mutation) error
}

// Queue is a durable FIFO of mutations backed by a local SQLite file
type Queue struct {
	db *gorm.DB
}

// Open opens (or creates) the queue database at path
func Open(path string) (*Queue, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open offline queue: %w", err)
	}
	if err := db.AutoMigrate(&Mutation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate offline queue: %w", err)
	}
	return &Queue{db: db}, nil
}

// Enqueue appends a mutation to the queue, assigning an idempotency key if
// the caller did not supply one
func (q *Queue) Enqueue(ctx context.Context, m *Mutation) error {
	if m.IdempotencyKey == "" {
		m.IdempotencyKey = uuid.NewString()
	}
	return q.db.WithContext(ctx).Create(m).Error
}

// Pending returns the queued mutations in capture order
func (q *Queue) Pending(ctx context.Context) ([]Mutation, error) {
	var mutations []Mutation
	err := q.db.WithContext(ctx).Order("id ASC").Find(&mutations).Error
	return mutations, err
}

// PendingCount returns the number of queued mutations
func (q *Queue) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&Mutation{}).Count(&count).Error
	return count, err
}

// Drain replays queued mutations through sender strictly in capture order,
// sequentially. A successful send deletes the mutation; a failed send records
// the error on the entry, which keeps its place for the next drain, and later
// entries are still attempted. Returns the number of mutations replayed and
// the send failures, joined.
func (q *Queue) Drain(ctx context.Context, sender Sender) (int, error) {
	mutations, err := q.Pending(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	var failures []error
	for i := range mutations {
		m := &mutations[i]
		if err := sender.Send(ctx, m); err != nil {
			now := time.Now()
			msg := err.Error()
			m.Attempts++
			m.LastError = &msg
			m.LastTriedAt = &now
			if saveErr := q.db.WithContext(ctx).Save(m).Error; saveErr != nil {
				log.Error().Err(saveErr).Uint("mutation_id", m.ID).Msg("failed to record drain failure")
			}
			log.Warn().Err(err).Uint("mutation_id", m.ID).Str("endpoint", m.Endpoint).Msg("queued mutation replay failed")
			failures = append(failures, err)
			continue
		}
		if err := q.db.WithContext(ctx).Delete(m).Error; err != nil {
			return sent, err
		}
		sent++
	}
	return sent, errors.Join(failures...)
}

// Close closes the underlying database
func (q *Queue) Close() error {
	sqlDB, err := q.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
