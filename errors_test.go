package soxr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := &Error{Op: OpProcess, Func: "Session.Process", Msg: "input after end-of-input"}
	assert.Equal(t, "soxr: process: input after end-of-input (from Session.Process)", err.Error())

	shape := &ShapeError{Func: "Session.Process", Msg: "output buffer is required"}
	assert.Equal(t, "soxr: output buffer is required (from Session.Process)", shape.Error())
}

func TestError_Is(t *testing.T) {
	cause := errors.New("cause")
	create := createError("Create", cause)
	process := processError("Session.Process", cause)

	assert.ErrorIs(t, create, ErrCreate)
	assert.NotErrorIs(t, create, ErrProcess)
	assert.ErrorIs(t, process, ErrProcess)
	assert.NotErrorIs(t, process, ErrCreate)
	assert.ErrorIs(t, process, cause)
	assert.Equal(t, "cause", process.Msg)

	assert.ErrorIs(t, shapeError("f", "bad"), ErrShape)
	assert.NotErrorIs(t, shapeError("f", "bad"), ErrProcess)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "create", OpCreate.String())
	assert.Equal(t, "process", OpProcess.String())
	assert.Equal(t, "Op(0)", Op(0).String())
}
