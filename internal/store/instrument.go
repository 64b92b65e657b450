package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/metrics"
	"github.com/example/myusers-admin/internal/models"
)

type instrumented struct {
	next   Store
	driver string
	log    *zap.Logger
}

// Instrument envolve um Store registrando métricas e logs de debug por operação.
func Instrument(next Store, driver string, log *zap.Logger) Store {
	return &instrumented{next: next, driver: driver, log: log}
}

func (s *instrumented) List(ctx context.Context, q ListQuery) ([]models.User, error) {
	start := time.Now()
	users, err := s.next.List(ctx, q)
	s.observe(OpList, start, err, zap.Int("rows", len(users)))
	return users, err
}

func (s *instrumented) Insert(ctx context.Context, d models.Draft) (models.User, error) {
	start := time.Now()
	user, err := s.next.Insert(ctx, d)
	s.observe(OpInsert, start, err, zap.Int64("id", user.ID))
	return user, err
}

func (s *instrumented) Update(ctx context.Context, id int64, d models.Draft) error {
	start := time.Now()
	err := s.next.Update(ctx, id, d)
	s.observe(OpUpdate, start, err, zap.Int64("id", id))
	return err
}

func (s *instrumented) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe(OpDelete, start, err, zap.Int64("id", id))
	return err
}

func (s *instrumented) observe(op string, start time.Time, err error, field zap.Field) {
	elapsed := time.Since(start)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(s.driver, op, result).Inc()
	metrics.StoreOperationDurationSeconds.WithLabelValues(s.driver, op).Observe(elapsed.Seconds())
	s.log.Debug("store",
		zap.String("driver", s.driver),
		zap.String("op", op),
		zap.String("result", result),
		zap.Duration("elapsed", elapsed),
		field,
	)
}
