package order

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{ProductID: "p1", ProductName: "Tenis Runner", Quantity: 2, Size: "42", Color: "white", UnitPrice: 29990},
		{ProductID: "p2", ProductName: "Meia Kit", Quantity: 1, Size: "U", Color: "black", UnitPrice: 3990},
	}
}

func TestNew(t *testing.T) {
	o, err := New("o1", "user-1", testItems(), "Rua das Flores, 123")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, int64(2*29990+3990), o.Total())
	assert.False(t, o.CreatedAt.IsZero())
	assert.Equal(t, "Rua das Flores, 123", o.ShippingAddress)
}

func TestNew_RequiresItems(t *testing.T) {
	_, err := New("o1", "user-1", nil, "addr")
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestNew_SnapshotsItems(t *testing.T) {
	items := testItems()
	o, err := New("o1", "user-1", items, "addr")
	require.NoError(t, err)

	items[0].Quantity = 99
	assert.Equal(t, 2, o.Items[0].Quantity, "order items must be value copies")
}

func TestConfirm_OnlyFromPending(t *testing.T) {
	o, _ := New("o1", "user-1", testItems(), "addr")

	require.NoError(t, o.Confirm())
	assert.Equal(t, StatusConfirmed, o.Status)

	err := o.Confirm()
	require.ErrorIs(t, err, ErrInvalidTransition)

	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, StatusConfirmed, invalid.From)
}

func TestCancel(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		o, _ := New("o1", "user-1", testItems(), "addr")
		require.NoError(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("from confirmed", func(t *testing.T) {
		o, _ := New("o1", "user-1", testItems(), "addr")
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("shipped and delivered are blocked", func(t *testing.T) {
		o, _ := New("o1", "user-1", testItems(), "addr")
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship())
		assert.ErrorIs(t, o.Cancel(), ErrInvalidTransition)

		require.NoError(t, o.Deliver())
		assert.ErrorIs(t, o.Cancel(), ErrInvalidTransition)
	})

	t.Run("cancelled cannot be cancelled again", func(t *testing.T) {
		o, _ := New("o1", "user-1", testItems(), "addr")
		require.NoError(t, o.Cancel())
		assert.ErrorIs(t, o.Cancel(), ErrInvalidTransition)
		assert.Equal(t, StatusCancelled, o.Status)
	})
}

func TestStatusMachineClosure(t *testing.T) {
	cases := []struct {
		name string
		from Status
		call func(o *Order) error
		ok   bool
	}{
		{"pending confirm", StatusPending, (*Order).Confirm, true},
		{"pending cancel", StatusPending, (*Order).Cancel, true},
		{"pending deliver", StatusPending, (*Order).Deliver, false},
		{"confirmed ship", StatusConfirmed, (*Order).Ship, true},
		{"confirmed confirm", StatusConfirmed, (*Order).Confirm, false},
		{"shipped deliver", StatusShipped, (*Order).Deliver, true},
		{"shipped cancel", StatusShipped, (*Order).Cancel, false},
		{"delivered cancel", StatusDelivered, (*Order).Cancel, false},
		{"cancelled confirm", StatusCancelled, (*Order).Confirm, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, _ := New("o1", "user-1", testItems(), "addr")
			o.Status = tc.from
			err := tc.call(o)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tc.from, o.Status, "rejected transition must not mutate status")
			}
		})
	}
}

func TestTotal_RecomputedFromItems(t *testing.T) {
	o, _ := New("o1", "user-1", []Item{{ProductID: "p1", Quantity: 3, UnitPrice: 1000}}, "addr")
	assert.Equal(t, int64(3000), o.Total())
	assert.Equal(t, int64(3000), o.Items[0].Subtotal())
}
