package onboarding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormDataDistinguishesEmptyProductsFromAbsent(t *testing.T) {
	var absent FormData
	require.NoError(t, json.Unmarshal([]byte(`{"businessName":"Acme"}`), &absent))
	assert.False(t, absent.Products.Set)
	assert.Nil(t, absent.ProductList())

	var empty FormData
	require.NoError(t, json.Unmarshal([]byte(`{"products":[]}`), &empty))
	assert.True(t, empty.Products.Set)
	require.NotNil(t, empty.ProductList())
	assert.Len(t, empty.ProductList(), 0)
}

func TestFormDataKeepsUnknownFieldsVerbatim(t *testing.T) {
	in := `{"businessName":"Acme","openingHours":{"mon":"9-5"},"colorPalette":{"primary":"#112233"}}`
	var fd FormData
	require.NoError(t, json.Unmarshal([]byte(in), &fd))

	require.Contains(t, fd.Extra, "businessName")
	require.Contains(t, fd.Extra, "openingHours")
	assert.NotContains(t, fd.Extra, FieldColorPalette)
	require.NotNil(t, fd.ColorPalette.Value)
	assert.Equal(t, "#112233", fd.ColorPalette.Value.Primary)

	out, err := json.Marshal(fd)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestFormDataExplicitNullIsSetWithoutValue(t *testing.T) {
	var fd FormData
	require.NoError(t, json.Unmarshal([]byte(`{"logo":null}`), &fd))
	assert.True(t, fd.Logo.Set)
	assert.Nil(t, fd.Logo.Value)

	out, err := json.Marshal(fd)
	require.NoError(t, err)
	assert.JSONEq(t, `{"logo":null}`, string(out))
}

func TestFormDataWrongShapeIsFormatError(t *testing.T) {
	var fd FormData
	err := json.Unmarshal([]byte(`{"products":"three"}`), &fd)
	require.Error(t, err)

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "formData.products", fe.Field)
}

func TestFormDataCloneDoesNotAlias(t *testing.T) {
	price := 10.5
	fd := FormData{Products: Some([]Product{{ID: NewID(), Name: "Soap", Price: &price}})}

	cp := fd.Clone()
	(*cp.Products.Value)[0].Name = "Candle"
	*(*cp.Products.Value)[0].Price = 99

	assert.Equal(t, "Soap", fd.ProductList()[0].Name)
	assert.Equal(t, 10.5, *fd.ProductList()[0].Price)
}

func TestParseIDRejectsNonV4Shapes(t *testing.T) {
	cases := map[string]string{
		"missing group": "6f1c2b1e-4a5b-4c3d-8e9f",
		"version 1":     "6f1c2b1e-4a5b-1c3d-8e9f-0a1b2c3d4e5f",
		"bad variant":   "6f1c2b1e-4a5b-4c3d-7e9f-0a1b2c3d4e5f",
		"braced":        "{6f1c2b1e-4a5b-4c3d-8e9f-0a1b2c3d4e5f}",
		"empty":         "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseID("sessionId", raw)
			require.Error(t, err)
			assert.True(t, IsFormatError(err))
		})
	}

	id, err := ParseID("sessionId", "6F1C2B1E-4A5B-4C3D-AE9F-0A1B2C3D4E5F")
	require.NoError(t, err)
	assert.Equal(t, "6f1c2b1e-4a5b-4c3d-ae9f-0a1b2c3d4e5f", id.String())
}

func TestValidationErrorHeadlineIsFirstViolation(t *testing.T) {
	err := Violations{
		{Field: "products[0].name", Reason: "is required"},
		{Field: "products", Reason: "must have at most 6 items"},
	}.Err()
	require.Error(t, err)
	assert.Equal(t, "products[0].name is required", err.Error())
	assert.NoError(t, Violations(nil).Err())
}

func TestStoreErrorHidesCause(t *testing.T) {
	err := &StoreError{Op: "save session", Err: assert.AnError}
	assert.Equal(t, "failed to save session", err.Error())
	assert.ErrorIs(t, err, assert.AnError)
}
