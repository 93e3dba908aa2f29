package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pedidos-api/pkg/money"
)

func TestDisplay(t *testing.T) {
	assert.Equal(t, "R$ 1.000,00", money.Display(decimal.NewFromInt(1000)))
	assert.Equal(t, "R$ 0,50", money.Display(decimal.RequireFromString("0.5")))
	assert.Equal(t, "1.234.567,89", money.Format(decimal.RequireFromString("1234567.891")))
}
