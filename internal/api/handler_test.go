package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/explorer"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/store"
)

const financeCSV = `Segment,Country,Product,Units Sold,Sales,Profit,Year
Government,Canada,Carretera,1618.5,"32,370.00",16185,2014
Midmarket,France,Paseo,921,13815,4605,2014
Government,Germany,Paseo,2178,21780,4356,2013
Enterprise,Canada,Amarilla,888,"1,332.00",-888,2013
`

func newTestRouter(t *testing.T, st *store.Store, opts Options) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(st, explorer.New(explorer.DefaultSeed, explorer.DefaultRows), opts)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, h
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "findash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/report", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeReport(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestGetStatus(t *testing.T) {
	r, _ := newTestRouter(t, nil, Options{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "findash", resp.Service)
	assert.False(t, resp.HistoryEnabled)
	assert.Contains(t, resp.RecognizedColumns, "Units Sold")
}

func TestCreateReportCSV(t *testing.T) {
	r, _ := newTestRouter(t, nil, Options{})

	w := serve(r, multipartUpload(t, "finance.csv", []byte(financeCSV), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeReport(t, w)
	report := resp["report"].(map[string]any)
	assert.EqualValues(t, 4, report["rowCount"])

	kpis := report["kpis"].(map[string]any)
	assert.InDelta(t, 69297.0, kpis["totalSales"], 1e-9)
	assert.InDelta(t, 24258.0, kpis["totalProfit"], 1e-9)
	assert.InDelta(t, 5605.5, kpis["totalUnits"], 1e-9)

	trend := report["trend"].([]any)
	require.Len(t, trend, 2)
	first := trend[0].(map[string]any)
	assert.Equal(t, "2013", first["year"])
	assert.Nil(t, first["salesYoYPct"])

	segments := report["segments"].([]any)
	require.Len(t, segments, 3)
	assert.Equal(t, "Enterprise", segments[0].(map[string]any)["segment"])

	charts := resp["charts"].(map[string]any)
	for _, name := range []string{"trend", "segmentSales", "segmentProfit", "topProducts", "topCountries"} {
		uri, ok := charts[name].(string)
		require.True(t, ok, "missing chart %s", name)
		assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	}

	assert.True(t, strings.HasPrefix(resp["downloadUrl"].(string), "/api/export/download/"))
}

func TestCreateReportWithFilter(t *testing.T) {
	r, _ := newTestRouter(t, nil, Options{})

	w := serve(r, multipartUpload(t, "finance.csv", []byte(financeCSV), map[string]string{
		"filterColumn": "Country",
		"filterValue":  "Canada",
		"topN":         "1",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decodeReport(t, w)["report"].(map[string]any)
	assert.EqualValues(t, 4, report["rowCount"])
	assert.EqualValues(t, 2, report["filteredRowCount"])
	assert.Len(t, report["preview"].([]any), 4)

	products := report["topProducts"].(map[string]any)["rows"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Carretera", products[0].(map[string]any)["label"])
}

func TestCreateReportBadRequests(t *testing.T) {
	r, _ := newTestRouter(t, nil, Options{})

	cases := []struct {
		name     string
		filename string
		content  string
		fields   map[string]string
	}{
		{"missing file", "", "", nil},
		{"unsupported extension", "finance.txt", financeCSV, nil},
		{"empty csv", "empty.csv", "", nil},
		{"corrupt workbook", "book.xlsx", "not a zip", nil},
		{"bad min value", "finance.csv", financeCSV, map[string]string{"minColumn": "Sales", "minValue": "lots"}},
		{"bad topN", "finance.csv", financeCSV, map[string]string{"topN": "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, multipartUpload(t, tc.filename, []byte(tc.content), tc.fields))
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, decodeReport(t, w), "error")
		})
	}
}

func TestCreateReportTooLarge(t *testing.T) {
	r, _ := newTestRouter(t, nil, Options{MaxUploadBytes: 64})

	w := serve(r, multipartUpload(t, "finance.csv", []byte(financeCSV), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDownloadExportIsOneShot(t *testing.T) {
	r, _ := newTestRouter(t, nil, Options{})

	w := serve(r, multipartUpload(t, "finance.csv", []byte(financeCSV), nil))
	require.Equal(t, http.StatusOK, w.Code)
	url := decodeReport(t, w)["downloadUrl"].(string)

	w = serve(r, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "findash_report_")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "KPIs")

	w = serve(r, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportDownloadStoreExpiry(t *testing.T) {
	s := newExportDownloadStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token := s.put(filepath.Join(t.TempDir(), "missing.xlsx"), "r.xlsx", time.Minute)
	require.Equal(t, 1, s.len())

	now = now.Add(2 * time.Minute)
	_, ok := s.take(token)
	assert.False(t, ok)
	assert.Equal(t, 0, s.len())
}

func TestUploadHistory(t *testing.T) {
	st := newTestStore(t)
	r, _ := newTestRouter(t, st, Options{})

	require.Equal(t, http.StatusOK, serve(r, multipartUpload(t, "finance.csv", []byte(financeCSV), nil)).Code)
	require.Equal(t, http.StatusBadRequest, serve(r, multipartUpload(t, "broken.xlsx", []byte("nope"), nil)).Code)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Enabled bool           `json:"enabled"`
		Uploads []store.Upload `json:"uploads"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Enabled)
	require.Len(t, resp.Uploads, 2)

	// 最新的在前
	assert.Equal(t, "broken.xlsx", resp.Uploads[0].FileName)
	assert.Equal(t, store.UploadStatusFailed, resp.Uploads[0].Status)
	assert.Equal(t, store.UploadStatusCompleted, resp.Uploads[1].Status)
	assert.Equal(t, 4, resp.Uploads[1].RowCount)
	assert.Equal(t, 7, resp.Uploads[1].ColumnCount)
	assert.Len(t, resp.Uploads[1].FileHash, 64)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	var status StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.HistoryEnabled)
	assert.Equal(t, 2, status.TotalUploads)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/uploads?limit=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadsDisabled(t *testing.T) {
	r, _ := newTestRouter(t, nil, Options{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enabled":false,"uploads":[]}`, w.Body.String())
}

func TestExplorerEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, nil, Options{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/explorer/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":["All","A","B","C"],"slider":{"min":10,"max":100,"step":5,"default":20}}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/explorer?category=B&min=50", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Title string     `json:"title"`
		Count int        `json:"count"`
		Rows  [][]string `json:"rows"`
		Chart string     `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Scatter Plot (Category=B, Min Value1=50)", resp.Title)
	assert.LessOrEqual(t, len(resp.Rows), explorer.DisplayRows)
	for _, row := range resp.Rows {
		assert.Equal(t, "B", row[0])
	}
	if resp.Count > 0 {
		assert.True(t, strings.HasPrefix(resp.Chart, "data:image/png;base64,"))
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/explorer?category=Z", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/explorer?min=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
