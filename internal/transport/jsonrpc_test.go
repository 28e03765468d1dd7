package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"test","params":{"a":1},"id":1}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "test", req.Method)
	require.Equal(t, json.RawMessage(`{"a":1}`), req.Params)
}

func TestParseRequest_Invalid(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1}`)
	_, err := ParseRequest(body)
	require.Error(t, err)
}

func TestParseRequest_Malformed(t *testing.T) {
	_, err := ParseRequest(bytes.NewBufferString(`{"jsonrpc":`))
	require.True(t, errors.Is(err, errMalformed))

	_, err = ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0"}`))
	require.Error(t, err)
	require.False(t, errors.Is(err, errMalformed))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, ErrInvalidParams, "bad params", nil)

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), `"error"`)
}

func TestParseRequest_Notification(t *testing.T) {
	req, err := ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	require.True(t, req.IsNotification())

	req, err = ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0","method":"ping","id":9007199254740993}`))
	require.NoError(t, err)
	require.False(t, req.IsNotification())
	require.Equal(t, json.Number("9007199254740993"), req.ID)
}
