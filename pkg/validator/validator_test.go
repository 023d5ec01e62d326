package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createForm struct {
	Title    string `validate:"required,min=1,max=200"`
	Category string `validate:"required,oneof=smartphones consoles games"`
	Price    int64  `validate:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(createForm{Title: "Phone X", Category: "smartphones", Price: 49900})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(createForm{Title: "", Category: "bicycles", Price: -1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Title"])
	assert.Equal(t, "must be one of: smartphones consoles games", fields["Category"])
	assert.Contains(t, fields["Price"], "greater than or equal to 0")
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(createForm{Title: "x", Category: "games", Price: -5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Price")
}

func TestDecodeAndValidate(t *testing.T) {
	body := `{"Title":"Console Y","Category":"consoles","Price":29900}`
	r := httptest.NewRequest("POST", "/products", strings.NewReader(body))

	var form createForm
	require.NoError(t, DecodeAndValidate(r, &form))
	assert.Equal(t, "Console Y", form.Title)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/products", strings.NewReader("{not json"))

	var form createForm
	err := DecodeAndValidate(r, &form)
	assert.Error(t, err)
}
