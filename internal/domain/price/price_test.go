package price

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHistory struct {
	updates int
	deletes int
	err     error
}

func (m *mockHistory) List(context.Context, string, string) ([]Record, error) {
	return nil, m.err
}

func (m *mockHistory) Update(context.Context, string, decimal.Decimal, time.Time) error {
	m.updates++
	return m.err
}

func (m *mockHistory) Delete(context.Context, string) error {
	m.deletes++
	return m.err
}

func TestSave_RequiresRecordID(t *testing.T) {
	h := &mockHistory{}
	svc := NewHistoryService(h)

	err := svc.Save(context.Background(), "", decimal.NewFromInt(45), time.Now())
	require.ErrorIs(t, err, ErrNoRecordID)
	assert.Equal(t, 0, h.updates, "nothing sent without a record id")
}

func TestSave_RequiresPositivePrice(t *testing.T) {
	h := &mockHistory{}
	svc := NewHistoryService(h)

	for _, v := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		err := svc.Save(context.Background(), "pr1", v, time.Now())
		require.ErrorIs(t, err, ErrInvalidPrice)
	}
	assert.Equal(t, 0, h.updates)
}

func TestSave_Updates(t *testing.T) {
	h := &mockHistory{}
	svc := NewHistoryService(h)

	require.NoError(t, svc.Save(context.Background(), "pr1", decimal.NewFromInt(45), time.Now()))
	assert.Equal(t, 1, h.updates)
}

func TestDelete_ConfirmationGate(t *testing.T) {
	tests := []struct {
		confirmation string
		allowed      bool
	}{
		{"confirm", true},
		{"Confirm", true},
		{"CONFIRM", true},
		{"confirmed", false},
		{"", false},
		{" confirm", false},
	}

	for _, tt := range tests {
		t.Run("confirmation="+tt.confirmation, func(t *testing.T) {
			h := &mockHistory{}
			svc := NewHistoryService(h)

			err := svc.Delete(context.Background(), "pr1", tt.confirmation)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, 1, h.deletes)
			} else {
				require.ErrorIs(t, err, ErrConfirmationMismatch)
				assert.Equal(t, 0, h.deletes, "no request before the gate passes")
			}
		})
	}
}
