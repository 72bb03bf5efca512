package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{TxnPending, TxnCompleted, true},
		{TxnPending, TxnFailed, true},
		{TxnPending, TxnCancelled, true},
		{TxnPending, TxnPending, false},
		{TxnCompleted, TxnFailed, false},
		{TxnCompleted, TxnPending, false},
		{TxnFailed, TxnCompleted, false},
		{TxnCancelled, TxnCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusAndEnumValidators(t *testing.T) {
	assert.True(t, IsValidTransactionStatus(TxnCompleted))
	assert.False(t, IsValidTransactionStatus("refunded"))

	assert.True(t, IsValidPropertyStatus(StatusPending))
	assert.False(t, IsValidPropertyStatus("archived"))

	assert.True(t, IsValidPropertyType(TypeResidential))
	assert.False(t, IsValidPropertyType("Industrial"))

	assert.True(t, IsValidDistrict("Kolkata"))
	assert.False(t, IsValidDistrict("Mumbai"))

	assert.True(t, IsValidAreaUnit("katha"))
	assert.False(t, IsValidAreaUnit("guntha"))
}
