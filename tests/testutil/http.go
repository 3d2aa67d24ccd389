package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewJSONRequest builds a request with a JSON-encoded body and the
// matching Content-Type, for driving handlers directly.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// JSONResponse decodes the recorded response body as a generic map.
func JSONResponse(t *testing.T, tc *TestContext) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "response body is not valid JSON")
	return result
}

// JSONResponseAs decodes the recorded response body into T.
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "response body is not valid JSON")
	return result
}

// AssertSuccessResponse checks the standard success envelope: success
// true and no error object.
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.True(t, resp["success"].(bool), "expected a success envelope")
	assert.Nil(t, resp["error"], "success envelope should carry no error")
}

// AssertErrorResponse checks the standard error envelope and its
// machine-readable code, e.g. DUPLICATE_RETURN or RECEIPT_NOT_FOUND.
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.False(t, resp["success"].(bool), "expected an error envelope")

	errMap, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "error envelope should carry an error object")
	assert.Equal(t, expectedCode, errMap["code"])
}

// ToJSONReader marshals v for use as a request body.
func ToJSONReader(t *testing.T, v interface{}) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}
