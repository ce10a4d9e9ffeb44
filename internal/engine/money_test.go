package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentOfRoundsToCents(t *testing.T) {
	assert.True(t, percentOf(money("100"), money("10")).Equal(money("10")))
	assert.True(t, percentOf(money("105"), money("5")).Equal(money("5.25")))
	assert.True(t, percentOf(money("33.33"), money("10")).Equal(money("3.33")))
	assert.True(t, percentOf(money("0.01"), money("5")).Equal(money("0")))
}

func TestTotalCostIncludesPremium(t *testing.T) {
	assert.True(t, totalCost(money("105"), money("5")).Equal(money("110.25")))
	assert.True(t, totalCost(money("100"), money("0")).Equal(money("100")))
}
