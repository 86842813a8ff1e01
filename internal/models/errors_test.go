package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("order 7: %w", ErrNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConstraintViolation))
}

func TestInvalidTransitionCarriesStates(t *testing.T) {
	var err error = &InvalidTransitionError{Axis: AxisPayment, From: "Refunded", To: "Paid"}

	ite, ok := AsInvalidTransition(fmt.Errorf("apply: %w", err))
	require.True(t, ok)
	assert.Equal(t, "Refunded", ite.From)
	assert.Equal(t, "Paid", ite.To)
	assert.Contains(t, ite.Error(), "Refunded -> Paid")

	_, ok = AsInvalidTransition(ErrNotFound)
	assert.False(t, ok)
}
