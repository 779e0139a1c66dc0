package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridlens/internal"
	"gridlens/internal/config"
)

const sampleCSV = "Sender,Recipient,Amount,Weight\nA,B,10,2\nB,C,5,1\nC,A,20,4\n"

func newTestApp(t *testing.T, passphrase string) *App {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "0"},
		Session: config.SessionConfig{PageSize: 10, Passphrase: passphrase},
		Upload:  config.UploadConfig{Dir: t.TempDir(), MaxFileSize: 1 << 20},
	}
	return NewApp(cfg, internal.NewLogger(internal.LogLevelError))
}

func uploadCSV(t *testing.T, app *App, content string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "transfers.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func doJSON(t *testing.T, app *App, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUploadAndRows(t *testing.T) {
	app := newTestApp(t, "")
	uploadCSV(t, app, sampleCSV)

	rec := doJSON(t, app, http.MethodGet, "/api/rows", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows []map[string]string `json:"rows"`
		Page struct {
			Total int `json:"total"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Page.Total)
	assert.Equal(t, "10", resp.Rows[0]["Amount"])
}

func TestFilterNarrowsRows(t *testing.T) {
	app := newTestApp(t, "")
	uploadCSV(t, app, sampleCSV)

	rec := doJSON(t, app, http.MethodPost, "/api/state/filters/Amount", map[string]interface{}{
		"min": 6,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Page struct {
			Total int `json:"total"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page.Total)
}

func TestStatsEndpoint(t *testing.T) {
	app := newTestApp(t, "")
	uploadCSV(t, app, sampleCSV)

	rec := doJSON(t, app, http.MethodGet, "/api/stats/Amount", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Numeric struct {
			Count  int     `json:"count"`
			Median float64 `json:"median"`
		} `json:"numeric"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Numeric.Count)
	assert.Equal(t, 10.0, resp.Numeric.Median)

	rec = doJSON(t, app, http.MethodGet, "/api/stats/Ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAggregateEndpoint(t *testing.T) {
	app := newTestApp(t, "")
	uploadCSV(t, app, sampleCSV)

	rec := doJSON(t, app, http.MethodPost, "/api/state/roles", map[string]string{
		"recipient":  "Recipient",
		"originator": "Sender",
		"amount":     "Amount",
		"weight":     "Weight",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, app, http.MethodGet, "/api/aggregate/B", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rollup struct {
		TotalValue  float64 `json:"total_value"`
		TotalWeight float64 `json:"total_weight"`
		Scope       string  `json:"scope"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rollup))
	assert.Equal(t, 15.0, rollup.TotalValue)
	assert.Equal(t, 3.0, rollup.TotalWeight)
	assert.Equal(t, "global", rollup.Scope)
}

func TestExportEndpoint(t *testing.T) {
	app := newTestApp(t, "")
	uploadCSV(t, app, sampleCSV)

	rec := doJSON(t, app, http.MethodGet, "/api/export?scope=view", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	assert.Len(t, lines, 4)

	rec = doJSON(t, app, http.MethodGet, "/api/export?scope=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccessGate(t *testing.T) {
	app := newTestApp(t, "secret")

	rec := doJSON(t, app, http.MethodGet, "/api/rows", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, app, http.MethodPost, "/api/unlock", map[string]string{"passphrase": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, app, http.MethodPost, "/api/unlock", map[string]string{"passphrase": "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, app, http.MethodGet, "/api/rows", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHelpPage(t *testing.T) {
	app := newTestApp(t, "secret")

	// Help stays reachable behind the gate.
	rec := doJSON(t, app, http.MethodGet, "/help", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1")
}

func TestClearAllEndpoint(t *testing.T) {
	app := newTestApp(t, "")
	uploadCSV(t, app, sampleCSV)

	doJSON(t, app, http.MethodPost, "/api/state/filters/Amount", map[string]interface{}{"min": 6})
	rec := doJSON(t, app, http.MethodPost, "/api/state/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Page struct {
			Total int `json:"total"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Page.Total)
}
