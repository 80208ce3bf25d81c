package errutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"conflict", ConflictError(base), KindConflict},
		{"not found", NotFoundError(base), KindNotFound},
		{"connectivity", ConnectivityError(base), KindConnectivity},
		{"validation", ValidationError(base), KindValidation},
		{"plain error", base, KindUnknown},
		{"wrapped conflict", fmt.Errorf("upsert page: %w", ConflictError(base)), KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, ConflictError(nil))
}

func TestUnwrapKeepsCause(t *testing.T) {
	base := errors.New("boom")
	assert.ErrorIs(t, ConflictError(base), base)
}
