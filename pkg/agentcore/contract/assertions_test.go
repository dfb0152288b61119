package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssert_FailsWithNoEmission(t *testing.T) {
	l := New("exec-1")
	err := l.Assert()
	require.Error(t, err)

	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "exec-1", v.ExecutionRef)
}

func TestAssert_PassesAfterEmission(t *testing.T) {
	l := New("exec-1")
	l.RecordEmission()
	assert.NoError(t, l.Assert())
	assert.Equal(t, 1, l.Count())
}
