package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSelectorProfile_Valid(t *testing.T) {
	err := ValidateSelectorProfile(`{
		"listing": ["div.custom a", "h2.title a"],
		"message_id_prefix": "msg-",
		"solution": [".accepted"]
	}`)
	assert.NoError(t, err)
}

func TestValidateSelectorProfile_EmptyObject(t *testing.T) {
	assert.NoError(t, ValidateSelectorProfile(`{}`))
}

func TestValidateSelectorProfile_UnknownProperty(t *testing.T) {
	err := ValidateSelectorProfile(`{"listnig": ["a"]}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateSelectorProfile_EmptyChain(t *testing.T) {
	err := ValidateSelectorProfile(`{"listing": []}`)
	assert.Error(t, err)
}

func TestValidateSelectorProfile_EmptySelectorString(t *testing.T) {
	err := ValidateSelectorProfile(`{"author": ["", "a.username"]}`)
	assert.Error(t, err)
}

func TestValidateSelectorProfile_WrongType(t *testing.T) {
	err := ValidateSelectorProfile(`{"listing": "div.custom a"}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "listing", validationErr.Errors[0].Field)
}

func TestValidateSelectorProfile_MalformedJSON(t *testing.T) {
	err := ValidateSelectorProfile(`{"listing": [`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateJSONString_SchemaError(t *testing.T) {
	err := ValidateJSONString(`not a schema`, `{}`)
	assert.Error(t, err)
}
