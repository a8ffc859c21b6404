package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusPending, true},
		{OrderStatusToShip, true},
		{OrderStatusToReceive, true},
		{OrderStatusCompleted, true},
		{OrderStatusCancelled, true},
		{OrderStatusReturned, true},
		{OrderStatusRefunded, true},
		{OrderStatusFailed, true},
		{OrderStatus("SHIPPED"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		// From PENDING
		{OrderStatusPending, OrderStatusToShip, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusFailed, true},
		{OrderStatusPending, OrderStatusToReceive, false},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusPending, OrderStatusReturned, false},
		{OrderStatusPending, OrderStatusRefunded, false},
		// From TO_SHIP
		{OrderStatusToShip, OrderStatusToReceive, true},
		{OrderStatusToShip, OrderStatusCancelled, false},
		{OrderStatusToShip, OrderStatusFailed, true},
		{OrderStatusToShip, OrderStatusCompleted, false},
		{OrderStatusToShip, OrderStatusPending, false},
		// From TO_RECEIVE
		{OrderStatusToReceive, OrderStatusCompleted, true},
		{OrderStatusToReceive, OrderStatusReturned, true},
		{OrderStatusToReceive, OrderStatusFailed, true},
		{OrderStatusToReceive, OrderStatusCancelled, false},
		{OrderStatusToReceive, OrderStatusToShip, false},
		// From RETURNED
		{OrderStatusReturned, OrderStatusRefunded, true},
		{OrderStatusReturned, OrderStatusFailed, true},
		{OrderStatusReturned, OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_TerminalStatesRejectAllEdges(t *testing.T) {
	terminals := []OrderStatus{OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed}
	all := []OrderStatus{
		OrderStatusPending, OrderStatusToShip, OrderStatusToReceive, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusReturned, OrderStatusRefunded, OrderStatusFailed,
	}

	for _, from := range terminals {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusToShip.IsTerminal())
	assert.False(t, OrderStatusToReceive.IsTerminal())
	assert.False(t, OrderStatusReturned.IsTerminal())
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusRefunded.IsTerminal())
	assert.True(t, OrderStatusFailed.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    OrderStatus
		wantErr bool
	}{
		{"TO_SHIP", OrderStatusToShip, false},
		{"to-ship", OrderStatusToShip, false},
		{"To Ship", OrderStatusToShip, false},
		{"to_ship", OrderStatusToShip, false},
		{" pending ", OrderStatusPending, false},
		{"to-receive", OrderStatusToReceive, false},
		{"COMPLETED", OrderStatusCompleted, false},
		{"cancelled", OrderStatusCancelled, false},
		{"refunded", OrderStatusRefunded, false},
		{"shipped", "", true},
		{"", "", true},
		{"to--ship", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsStaleTargetFor(t *testing.T) {
	tests := []struct {
		name    string
		current OrderStatus
		target  OrderStatus
		stale   bool
	}{
		{"same status", OrderStatusToShip, OrderStatusToShip, true},
		{"already past target", OrderStatusCompleted, OrderStatusToShip, true},
		{"receive past ship", OrderStatusToReceive, OrderStatusToShip, true},
		{"forward progress", OrderStatusPending, OrderStatusToShip, false},
		{"skip ahead is not stale", OrderStatusPending, OrderStatusCompleted, false},
		{"cancelled order ignores late ship", OrderStatusCancelled, OrderStatusToShip, true},
		{"returned order ignores late receive", OrderStatusReturned, OrderStatusToReceive, true},
		{"side-exit target is never stale", OrderStatusCompleted, OrderStatusCancelled, false},
		{"refund request is never stale", OrderStatusReturned, OrderStatusRefunded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stale, IsStaleTargetFor(tt.current, tt.target))
		})
	}
}
