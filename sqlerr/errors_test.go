package sqlerr_test

import (
	"errors"
	"testing"

	"github.com/ashenguard/easysql/sqlerr"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		kind  error
	}{
		{"schema", sqlerr.Schema("column %q is not declared", "Nope"), sqlerr.IsSchema, sqlerr.ErrSchema},
		{"range", sqlerr.Range("%d out of range", 256), sqlerr.IsRange, sqlerr.ErrRange},
		{"type mismatch", sqlerr.TypeMismatch("want integer"), sqlerr.IsTypeMismatch, sqlerr.ErrTypeMismatch},
		{"safety", sqlerr.Safety("delete without condition"), sqlerr.IsSafety, sqlerr.ErrSafety},
		{"state", sqlerr.State("already executed"), sqlerr.IsState, sqlerr.ErrState},
		{"cardinality", sqlerr.Cardinality("3 rows"), sqlerr.IsCardinality, sqlerr.ErrCardinality},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.False(t, sqlerr.IsExecution(tt.err))
		})
	}
}

func TestExecutionWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := sqlerr.Execution("select", "Users", cause)

	assert.True(t, sqlerr.IsExecution(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "select: execution error on Users: connection refused", err.Error())
}

func TestNestedKindsAreReachable(t *testing.T) {
	inner := sqlerr.Range("300 does not fit TINYINT UNSIGNED")
	outer := &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: "Users", Column: "Level", Message: "invalid default", Cause: inner}

	assert.True(t, sqlerr.IsSchema(outer))
	assert.True(t, sqlerr.IsRange(outer))
	assert.Contains(t, outer.Error(), "Users.Level")
}

func TestAnnotate(t *testing.T) {
	err := sqlerr.Annotate(sqlerr.Range("too long"), "Users", "Name")

	var e *sqlerr.Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, "Users", e.Table)
	assert.Equal(t, "Name", e.Column)

	plain := errors.New("plain")
	assert.Same(t, plain, sqlerr.Annotate(plain, "Users", "Name"))
}
