package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustbridge-auth/internal/app"
	"trustbridge-auth/internal/idgen"
	"trustbridge-auth/internal/storage"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()

	portal := app.New(storage.NewMemoryMedium(), app.Options{IDs: idgen.NewSequence("")}, logger)
	router := gin.New()
	NewHandler(portal, logger).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RegisterAndSession(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/register", `{"username":"alice","email":"Alice@Example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"user":{"id":"u_1","username":"alice","email":"alice@example.com"}}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"loggedIn":true,"user":{"id":"u_1","username":"alice","email":"alice@example.com"}}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/session", "")
	assert.JSONEq(t, `{"loggedIn":false,"user":null}`, rec.Body.String())
}

func TestHandler_LoginFailure(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/login", `{"identifier":"nope","password":"wrong"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"err":"Invalid username/email or password."}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/login", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Transactions(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/register", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/transactions/tx1", `{"amount":5}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodPut, "/api/transactions/tx1", `{"amount":9}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodPut, "/api/transactions/tx2", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"tx1","amount":9},{"id":"tx2"}]`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/transactions/tx1/owned", "")
	assert.JSONEq(t, `{"owned":true}`, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/api/transactions/tx3", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	do(t, router, http.MethodPost, "/api/logout", "")
	rec = do(t, router, http.MethodGet, "/api/transactions", "")
	var txs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	assert.Empty(t, txs)

	rec = do(t, router, http.MethodGet, "/api/transactions/tx1/owned", "")
	assert.JSONEq(t, `{"owned":false}`, rec.Body.String())
}

func TestHandler_CORSPreflight(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodOptions, "/api/login", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_ChunkedEmptyPayload(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/register", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/transactions/tx1", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/transactions", "")
	assert.JSONEq(t, `[{"id":"tx1"}]`, rec.Body.String())
}
