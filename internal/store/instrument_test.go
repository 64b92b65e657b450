package store

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/metrics"
	"github.com/example/myusers-admin/internal/models"
)

type stubStore struct {
	err error
}

func (s stubStore) List(context.Context, ListQuery) ([]models.User, error) {
	return []models.User{{ID: 1}}, s.err
}
func (s stubStore) Insert(context.Context, models.Draft) (models.User, error) {
	return models.User{ID: 2}, s.err
}
func (s stubStore) Update(context.Context, int64, models.Draft) error { return s.err }
func (s stubStore) Delete(context.Context, int64) error             { return s.err }

func TestInstrument_CountsResults(t *testing.T) {
	okCounter := metrics.StoreOperationsTotal.WithLabelValues("stub", OpList, "ok")
	errCounter := metrics.StoreOperationsTotal.WithLabelValues("stub", OpDelete, "error")
	okBefore := testutil.ToFloat64(okCounter)
	errBefore := testutil.ToFloat64(errCounter)

	s := Instrument(stubStore{}, "stub", zap.NewNop())
	users, err := s.List(context.Background(), NewestFirst())
	require.NoError(t, err)
	assert.Len(t, users, 1)

	failing := Instrument(stubStore{err: errors.New("x")}, "stub", zap.NewNop())
	assert.Error(t, failing.Delete(context.Background(), 1))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(okCounter))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(errCounter))
}
