package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "http error", err: ErrForbidden("no"), want: http.StatusForbidden},
		{name: "wrapped", err: fmt.Errorf("plans: %w", ErrBadRequest("bad")), want: http.StatusBadRequest},
		{name: "plain", err: stderrors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	cause := stderrors.New("status 500")
	rec := httptest.NewRecorder()

	WriteError(rec, ErrBadGateway("backend rejected activation", cause))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "backend rejected activation", body["error"])
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("dial tcp")
	err := Wrap(http.StatusBadGateway, "backend unreachable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "backend unreachable: dial tcp", err.Error())
}
