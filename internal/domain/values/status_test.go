package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Status_Precedence(t *testing.T) {
	assert.True(t, StatusFail.Precedence() > StatusError.Precedence())
	assert.True(t, StatusError.Precedence() > StatusSkipped.Precedence())
	assert.True(t, StatusSkipped.Precedence() > StatusPass.Precedence())
	assert.Equal(t, -1, Status("unknown").Precedence())
}

func Test_Status_Predicates(t *testing.T) {
	assert.True(t, StatusFail.IsFailure())
	assert.True(t, StatusError.IsFailure())
	assert.False(t, StatusPass.IsFailure())
	assert.True(t, StatusPass.IsSuccess())
	assert.NoError(t, StatusSkipped.Validate())
	assert.Error(t, Status("bogus").Validate())
}
