package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string   `json:"name" validate:"required,max=5"`
	Size     int      `query:"size" validate:"min=1,max=100"`
	Price    float64  `json:"price" validate:"gt=0"`
	PriceMin *float64 `query:"price_min" validate:"omitempty,gte=0"`
	Link     string   `json:"image_url" validate:"omitempty,url"`
}

func TestValidator_Valid(t *testing.T) {
	v := New()

	err := v.Validate(&sample{Name: "mouse", Size: 10, Price: 1})
	assert.NoError(t, err)
}

func TestValidator_FieldErrors(t *testing.T) {
	v := New()
	negative := -1.0

	err := v.Validate(&sample{Name: "", Size: 101, Price: 0, PriceMin: &negative, Link: "not a url"})
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))

	byField := make(map[string]ValidationError, len(errs))
	for _, e := range errs {
		byField[e.Field] = e
	}

	assert.Equal(t, "name is required", byField["name"].Message)
	assert.Equal(t, "size must be at most 100", byField["size"].Message)
	assert.Equal(t, "price must be greater than 0", byField["price"].Message)
	assert.Equal(t, "price_min must be at least 0", byField["price_min"].Message)
	assert.Equal(t, "-1", byField["price_min"].Value)
	assert.Equal(t, "image_url must be a valid URL", byField["image_url"].Message)
}

func TestValidator_StringLengthMessage(t *testing.T) {
	v := New()

	err := v.Validate(&sample{Name: "keyboard", Size: 1, Price: 1})
	require.Error(t, err)
	assert.Equal(t, "name must be at most 5 characters", err.Error())
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "", ValidationErrors{}.Error())

	errs := ValidationErrors{{Message: "a is required"}, {Message: "b must be at least 1"}}
	assert.Equal(t, "a is required; b must be at least 1", errs.Error())
}
