package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

func TestCheckScale(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"10", true},
		{"0.0001", true},
		{"2.5000", true},
		{"1.50000", true}, // ceros de sobra no cambian el valor
		{"0.00001", false},
		{"0.00006", false},
		{"3.12345", false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			err := inventory.CheckScale("quantity", decimal.RequireFromString(tc.value))
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "quantity", verr.Field)
		})
	}
}

func TestAdjustTo_RechazaMasDecimalesQueLaColumna(t *testing.T) {
	_, err := inventory.AdjustTo(d(1), decimal.RequireFromString("0.00005"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	delta, err := inventory.AdjustTo(d(1), decimal.RequireFromString("0.0005"))
	require.NoError(t, err)
	assert.True(t, delta.Equal(decimal.RequireFromString("-0.9995")))
}
