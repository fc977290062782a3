package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInventoryItem_StockStatus(t *testing.T) {
	testCases := []struct {
		name      string
		quantity  int
		threshold int
		expected  StockStatus
	}{
		{name: "below threshold", quantity: 5, threshold: 10, expected: StockLow},
		{name: "at threshold", quantity: 10, threshold: 10, expected: StockLow},
		{name: "above threshold", quantity: 11, threshold: 10, expected: StockOK},
		{name: "empty with zero threshold", quantity: 0, threshold: 0, expected: StockLow},
		{name: "stocked with zero threshold", quantity: 1, threshold: 0, expected: StockOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := InventoryItem{Quantity: tc.quantity, Threshold: tc.threshold}
			assert.Equal(t, tc.expected, item.StockStatus())
		})
	}
}

func TestRole(t *testing.T) {
	assert.Equal(t, "Technician", RoleTechnician.Capitalized())
	assert.Equal(t, "Admin", RoleAdmin.Capitalized())
	assert.Equal(t, "", Role("").Capitalized())

	assert.True(t, RoleEmployee.Valid())
	assert.False(t, Role("MANAGER").Valid())
}

func TestRepairTicket_ApplyStatus(t *testing.T) {
	first := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	var ticket RepairTicket
	ticket.ApplyStatus(TicketInProgress, first)
	assert.Equal(t, TicketInProgress, ticket.Status)
	assert.Equal(t, first, *ticket.AssignedOn)
	assert.Nil(t, ticket.ResolvedOn)

	ticket.ApplyStatus(TicketClosed, first)
	assert.Equal(t, first, *ticket.ResolvedOn)

	// Repeating a transition stamps the new time.
	ticket.ApplyStatus(TicketClosed, second)
	assert.Equal(t, second, *ticket.ResolvedOn)

	ticket.ApplyStatus(TicketOpen, second)
	assert.Equal(t, TicketOpen, ticket.Status)
	assert.Equal(t, first, *ticket.AssignedOn)
}
