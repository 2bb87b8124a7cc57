package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseCategory("  meals & dining ")
	require.NoError(t, err)
	assert.Equal(t, CategoryMeals, got)

	_, err = ParseCategory("Food")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParsePaymentMethod(t *testing.T) {
	for _, m := range PaymentMethods() {
		got, err := ParsePaymentMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParsePaymentMethod("bank transfer")
	require.NoError(t, err)
	assert.Equal(t, PaymentBankTransfer, got)

	_, err = ParsePaymentMethod("Bitcoin")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestEnumCounts(t *testing.T) {
	assert.Len(t, Categories(), 11)
	assert.Len(t, PaymentMethods(), 6)
	assert.Equal(t, "Unknown", Category(0).String())
	assert.False(t, PaymentMethod(0).IsValid())
}

func TestEnumJSON(t *testing.T) {
	type doc struct {
		Category      Category      `json:"category"`
		PaymentMethod PaymentMethod `json:"payment_method"`
	}
	b, err := json.Marshal(doc{CategorySupplies, PaymentCreditCard})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Office Supplies","payment_method":"Credit Card"}`, string(b))

	var back doc
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, CategorySupplies, back.Category)
	assert.Equal(t, PaymentCreditCard, back.PaymentMethod)

	_, err = json.Marshal(doc{})
	assert.Error(t, err)
	assert.Error(t, json.Unmarshal([]byte(`{"category":"Food"}`), &back))
}
