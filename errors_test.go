package inkwell_test

import (
	"errors"
	"testing"

	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		expected  bool
	}{
		{
			name:      "nil error is not credential rejected",
			err:       nil,
			predicate: inkwell.IsCredentialRejected,
			expected:  false,
		},
		{
			name:      "plain error is not credential rejected",
			err:       errors.New("boom"),
			predicate: inkwell.IsCredentialRejected,
			expected:  false,
		},
		{
			name:      "plain error is not transport unavailable",
			err:       errors.New("connection refused"),
			predicate: inkwell.IsTransportUnavailable,
			expected:  false,
		},
		{
			name:      "nil error is not operation rejected",
			err:       nil,
			predicate: inkwell.IsOperationRejected,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.predicate(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", inkwell.ErrorMessage(nil))
	assert.Equal(t, "boom", inkwell.ErrorMessage(errors.New("boom")))
}
