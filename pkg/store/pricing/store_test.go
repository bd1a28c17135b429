package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticStore(t *testing.T) {
	store := NewStaticStore(map[string]float64{
		"t3.micro": 7.5,
		"m5.large": 96.0,
	}, 50.0)

	assert.Equal(t, 7.5, store.GetSkuPrice("t3.micro").MonthlyUSD)
	assert.Equal(t, 96.0, store.GetSkuPrice("m5.large").MonthlyUSD)
	assert.Equal(t, 50.0, store.GetSkuPrice("x2gd.metal").MonthlyUSD)
}
