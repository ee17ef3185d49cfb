package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	res := SuccessResponse("ok", map[string]string{"k": "v"})
	assert.True(t, res.Success)
	assert.Equal(t, 200, res.Code)
	assert.Equal(t, "ok", res.Message)
	assert.Equal(t, "v", res.Data["k"])
}

func TestErrorResponse(t *testing.T) {
	res := ErrorResponse(400, "bad input")
	assert.False(t, res.Success)
	assert.Equal(t, 400, res.Code)
	assert.Nil(t, res.Data)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Query string `validate:"required"`
	}

	assert.Error(t, ValidateRequest(&req{}))
	assert.NoError(t, ValidateRequest(&req{Query: "hi"}))
}
