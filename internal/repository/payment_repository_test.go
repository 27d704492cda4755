package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPaymentCreate_RejectsNonPositiveAmount(t *testing.T) {
	repo := NewPaymentRepository(nil, zap.NewNop())

	_, err := repo.Create(context.Background(), 1, 0)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = repo.Create(context.Background(), 1, -150.25)
	require.ErrorIs(t, err, ErrInvalidAmount)
}
