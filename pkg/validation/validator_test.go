package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type priceInput struct {
	Title string `json:"title" binding:"required,max=5"`
	Price string `json:"price" binding:"required,money"`
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&priceInput{Title: "too long title", Price: "1.234"})

	details := ToDetails(err)
	assert.Equal(t, "must be at most 5 characters long", details["title"])
	assert.Contains(t, details["price"], "at most 2 decimals")
}

func TestMoney(t *testing.T) {
	Init()
	cases := map[string]bool{
		"4.50":    true,
		"0":       true,
		"999.99":  true,
		"1000":    false,
		"-1":      false,
		"1.001":   false,
		"abc":     false,
		"12.3000": true,
	}
	for in, ok := range cases {
		err := binding.Validator.ValidateStruct(&priceInput{Title: "t", Price: in})
		if ok {
			assert.NoError(t, err, in)
		} else {
			assert.Error(t, err, in)
		}
	}
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{"), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("x")))
	assert.Nil(t, ToDetails(nil))
}
