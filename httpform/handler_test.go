package httpform_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formcheck"
	"github.com/dmitrymomot/formcheck/httpform"
)

const rulesDoc = `
signup:
  salutation:
    type: required
    enum: [Herr, Frau, Firma]
    message: pick a salutation
  age:
    type: required
    min: 18
    message: adults only
`

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler(t *testing.T) {
	t.Parallel()

	v, err := formcheck.NewFromBytes([]byte(rulesDoc))
	require.NoError(t, err)
	h := httpform.Handler(v)

	t.Run("valid form returns 200", func(t *testing.T) {
		t.Parallel()
		rec := postForm(t, h, "/signup", url.Values{
			"salutation": {"Frau"},
			"age":        {"30"},
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, map[string]any{"ok": true}, decodeBody(t, rec))
	})

	t.Run("failing form returns 422 with the error bag", func(t *testing.T) {
		t.Parallel()
		rec := postForm(t, h, "/signup", url.Values{
			"salutation": {"Chef"},
			"age":        {"12"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, map[string]any{
			"salutation": "pick a salutation",
			"age":        "adults only",
		}, body["errors"])
	})

	t.Run("unknown section validates nothing and returns 200", func(t *testing.T) {
		t.Parallel()
		rec := postForm(t, h, "/checkout", url.Values{"whatever": {"x"}})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("a=%zz"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/signup", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandlerFatalError(t *testing.T) {
	t.Parallel()

	v, err := formcheck.NewFromBytes([]byte(`
signup:
  token:
    plugin: unregistered
`))
	require.NoError(t, err)
	h := httpform.Handler(v)

	rec := postForm(t, h, "/signup", url.Values{"token": {"abc"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "validation unavailable", body["error"])
}
