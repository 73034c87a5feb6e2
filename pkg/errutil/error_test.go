package errutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestBaseErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("something broke", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsStatus(err, StatusInternal))
}

func TestIsStatusThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("missing", nil))

	assert.True(t, IsStatus(err, StatusNotFound))
	assert.False(t, IsStatus(err, StatusConflict))
	assert.False(t, IsStatus(errors.New("plain"), StatusNotFound))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[CoreStatus]int{
		StatusBadRequest:          http.StatusBadRequest,
		StatusValidationFailed:    http.StatusBadRequest,
		StatusNotFound:            http.StatusNotFound,
		StatusConflict:            http.StatusConflict,
		StatusUnprocessableEntity: http.StatusUnprocessableEntity,
		StatusBadGateway:          http.StatusBadGateway,
		StatusUnknown:             http.StatusInternalServerError,
	}

	for status, want := range cases {
		assert.Equal(t, want, status.HTTPStatus(), "status %s", status)
	}
}

func TestToGRPCError(t *testing.T) {
	assert.NoError(t, ToGRPCError(nil))

	st, ok := status.FromError(ToGRPCError(Conflict("duplicate", nil)))
	assert.True(t, ok)
	assert.Equal(t, codes.AlreadyExists, st.Code())

	st, ok = status.FromError(ToGRPCError(errors.New("plain")))
	assert.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())

	st, ok = status.FromError(ToGRPCError(context.Canceled))
	assert.True(t, ok)
	assert.Equal(t, codes.Canceled, st.Code())
}
