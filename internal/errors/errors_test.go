package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := SchemaError("a.xlsx", []string{"DA", "ru"})
	wrapped := Wrapf(base, "batch aborted at %s", "in/a.xlsx")

	assert.Equal(t, CodeSchemaError, GetCode(wrapped))
	assert.Equal(t, "batch aborted at in/a.xlsx: a.xlsx: missing required columns [DA, ru]", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrap_PlainError(t *testing.T) {
	err := Wrap(fmt.Errorf("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "context"))
}

func TestHasCode(t *testing.T) {
	inner := EmptyInput("b.xlsx")
	outer := WithCode(CodeInvalidInput, Wrap(inner, "load"))

	assert.Equal(t, CodeInvalidInput, GetCode(outer))
	assert.True(t, HasCode(outer, CodeInvalidInput))
	assert.True(t, HasCode(outer, CodeEmptyInput))
	assert.False(t, HasCode(outer, CodeParseError))
	assert.False(t, HasCode(nil, CodeParseError))
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
	assert.True(t, IsAppError(fmt.Errorf("wrapped: %w", ParseError("c.xlsx", "no CSR"))))
}
