package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// Ctx returns a test context cancelled on cleanup
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Code serves the request through echo and checks the response code
func Code(t *testing.T, tEcho *echo.Echo, req *http.Request, code int) *httptest.ResponseRecorder {
	t.Helper()
	tResp := httptest.NewRecorder()
	tEcho.ServeHTTP(tResp, req)
	require.Equal(t, code, tResp.Code, tResp.Body.String())
	return tResp
}

// RStr reads all from r as a string
func RStr(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.Nil(t, err)
	return string(b)
}

// Decode decodes JSON from r to the wanted type
func Decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var res T
	require.Nil(t, json.NewDecoder(r).Decode(&res))
	return res
}
