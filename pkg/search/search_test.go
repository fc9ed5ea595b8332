package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/pkg/search"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "valvula de expansion", search.Normalize("  Válvula   de EXPANSIÓN "))
	assert.Equal(t, "cano", search.Normalize("Caño"))
	assert.Equal(t, "", search.Normalize("   "))
}

func TestContains(t *testing.T) {
	assert.True(t, search.Contains("valvula", "ITM-01", "Válvula de servicio"))
	assert.True(t, search.Contains("ÍTM", "itm-01"))
	assert.True(t, search.Contains("", "lo que sea"))
	assert.False(t, search.Contains("compresor", "Válvula", "Tubería"))
}

func TestDocument(t *testing.T) {
	assert.Equal(t, "itm-01 tuberia de cobre sn-9", search.Document("ITM-01", "Tubería de cobre", "SN-9"))
}
