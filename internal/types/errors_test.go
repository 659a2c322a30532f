package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "schema_mismatch", ClassSchemaMismatch.String())
	assert.Equal(t, "invariant_violation", ClassInvariantViolation.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}

func TestClassifiedErrorIs(t *testing.T) {
	err := fmt.Errorf("failed to encode: %w", SchemaMismatch("encode", "no message for %s", "FooMsg"))

	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.False(t, errors.Is(err, ErrDecodeValidation))

	class, ok := Classify(err)
	assert.True(t, ok)
	assert.Equal(t, ClassSchemaMismatch, class)
	assert.Contains(t, err.Error(), "no message for FooMsg")
}

func TestClassifyPlainError(t *testing.T) {
	_, ok := Classify(errors.New("plain"))
	assert.False(t, ok)
}
