package nominatim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressVariants(t *testing.T) {
	variants := AddressVariants("д. Дубовцы, Минский р-н", "Минская область", "Беларусь")

	require.Len(t, variants, 3)
	assert.Equal(t, "д. Дубовцы, Минский р-н, Беларусь", variants[0])
	assert.Equal(t, "д. Дубовцы, Минская область, Беларусь", variants[1])
	// При единственном населенном пункте третий вариант совпадает со вторым
	assert.Equal(t, "д. Дубовцы, Минская область, Беларусь", variants[2])
}

func TestAddressVariants_MultipleSettlementParts(t *testing.T) {
	variants := AddressVariants("Минская обл., Несвижский р-н, аг. Снов, ул. Ленина, д. 5", "Минская область", "Беларусь")

	require.Len(t, variants, 3)
	assert.Equal(t, "Минская обл., Несвижский р-н, аг. Снов, ул. Ленина, д. 5, Беларусь", variants[0])
	// "д. 5" тоже содержит маркер "д." и попадает в упрощенный вариант
	assert.Equal(t, "аг. Снов, д. 5, Минская область, Беларусь", variants[1])
	assert.Equal(t, "д. 5, Минская область, Беларусь", variants[2])
}

func TestAddressVariants_NoSettlementMarkers(t *testing.T) {
	variants := AddressVariants("Минский р-н, СТ Ромашка", "Минская область", "Беларусь")

	require.Len(t, variants, 1)
	assert.Equal(t, "Минский р-н, СТ Ромашка, Беларусь", variants[0])
}

func TestAddressVariants_SkipsEmptyParts(t *testing.T) {
	variants := AddressVariants("д. Лесная, , Минский р-н", "Минская область", "Беларусь")

	require.Len(t, variants, 3)
	assert.Equal(t, "д. Лесная, Минская область, Беларусь", variants[1])
}
