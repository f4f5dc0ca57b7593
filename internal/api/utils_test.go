package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/records", nil)

	ErrorResponse(w, r, http.StatusNotFound, "Record not found")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp types.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Record not found", resp.Error)
	assert.Empty(t, resp.Message)
}

func TestValidationErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/records", nil)

	ValidationErrorResponse(w, r, map[string][]string{"name": {"Name is required"}})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Error   string              `json:"error"`
		Fields  map[string][]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, []string{"Name is required"}, resp.Fields["name"])
}

func TestDecodeJSONBody(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	decode := func(t *testing.T, payload string) error {
		t.Helper()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/records", bytes.NewBufferString(payload))
		var dst body
		return DecodeJSONBody(w, r, &dst)
	}

	t.Run("valid body decodes", func(t *testing.T) {
		assert.NoError(t, decode(t, `{"name":"ok"}`))
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		err := decode(t, "")
		require.Error(t, err)
		assert.Equal(t, "body must not be empty", err.Error())
	})

	t.Run("unknown field names the key", func(t *testing.T) {
		err := decode(t, `{"name":"ok","bogus":1}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"bogus"`)
	})

	t.Run("malformed JSON is reported", func(t *testing.T) {
		err := decode(t, `{"name":`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "badly-formed JSON")
	})

	t.Run("wrong type names the field", func(t *testing.T) {
		err := decode(t, `{"name":42}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"name"`)
	})

	t.Run("trailing values are rejected", func(t *testing.T) {
		err := decode(t, `{"name":"ok"}{"name":"again"}`)
		require.Error(t, err)
		assert.Equal(t, "body must only contain a single JSON value", err.Error())
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		err := decode(t, `{"name":"`+strings.Repeat("x", maxBodyBytes+1)+`"}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "larger than")
	})
}
