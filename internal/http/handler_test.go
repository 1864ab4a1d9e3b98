package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-service/internal/model"
	"report-service/internal/render"
	"report-service/internal/repository"
	"report-service/internal/service"
)

type stubRecords struct {
	records []model.ComplianceRecord
}

func (s *stubRecords) Fetch(_ context.Context, _ model.ReportFilter) ([]model.ComplianceRecord, error) {
	return s.records, nil
}

type stubStore struct {
	reports map[uuid.UUID]*model.Report
}

func (s *stubStore) Create(_ context.Context, report *model.Report) error {
	s.reports[report.ID] = report
	return nil
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (*model.Report, error) {
	report, ok := s.reports[id]
	if !ok {
		return nil, repository.ErrReportNotFound
	}
	return report, nil
}

func (s *stubStore) ListByTeam(_ context.Context, teamID uuid.UUID) ([]model.Report, error) {
	var out []model.Report
	for _, r := range s.reports {
		if r.TeamID == teamID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubStore) UpdatePrimaryFile(_ context.Context, _ uuid.UUID, _ string, _ int64, _ int) error {
	return nil
}

func (s *stubStore) RecordDownload(_ context.Context, _, _ uuid.UUID, _ model.ReportFormat, _ time.Time) error {
	return nil
}

type stubScopes struct {
	owned bool
}

func (s *stubScopes) LocationBelongsToTeam(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return s.owned, nil
}

func (s *stubScopes) ZoneBelongsToTeam(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return s.owned, nil
}

type testEnv struct {
	router    *gin.Engine
	store     *stubStore
	scopes    *stubScopes
	principal model.Principal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	worker := "W1"
	records := &stubRecords{records: []model.ComplianceRecord{{
		Timestamp:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		WorkerID:      &worker,
		DeviceID:      uuid.New(),
		ZoneID:        uuid.New(),
		ZoneName:      "Assembly",
		LocationID:    uuid.New(),
		LocationName:  "Site 1",
		EquippedItems: []string{"Vest"},
		Compliance:    map[string]string{"Vest": "No"},
	}}}
	store := &stubStore{reports: make(map[uuid.UUID]*model.Report)}
	scopes := &stubScopes{owned: true}

	svc, err := service.NewReportService(records, store, scopes, render.DefaultRegistry(), t.TempDir(), 30, 365, zerolog.Nop())
	require.NoError(t, err)

	env := &testEnv{
		store:     store,
		scopes:    scopes,
		principal: model.Principal{UserID: uuid.New(), TeamID: uuid.New(), Role: "manager"},
	}

	router := gin.New()
	handler := NewHandler(svc, zerolog.Nop())
	handler.Register(router, func(c *gin.Context) {
		c.Set("principal", env.principal)
		c.Next()
	})
	env.router = router
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
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
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateReportEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/reports", gin.H{
		"title":      "June Compliance",
		"type":       "compliance_summary",
		"formats":    []string{"csv"},
		"start_date": "2025-06-01",
		"end_date":   "2025-06-30",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data model.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, env.principal.TeamID, resp.Data.TeamID)
	assert.Equal(t, model.ReportComplianceSummary, resp.Data.Type)
	assert.Equal(t, model.FormatList{model.FormatCSV}, resp.Data.Formats)

	_, err := os.Stat(resp.Data.FilePath)
	assert.NoError(t, err)
}

func TestGenerateReportEndpoint_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"unknown type", gin.H{"title": "x", "type": "weekly_digest"}},
		{"missing title", gin.H{"type": "compliance_summary"}},
		{"bad start date", gin.H{"title": "x", "type": "compliance_summary", "start_date": "June 1st"}},
		{"bad location id", gin.H{"title": "x", "type": "compliance_summary", "location_id": "not-a-uuid"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/reports", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestGenerateReportEndpoint_ScopeViolation(t *testing.T) {
	env := newTestEnv(t)
	env.scopes.owned = false

	rec := env.do(t, http.MethodPost, "/reports", gin.H{
		"title":       "Scoped",
		"type":        "compliance_summary",
		"location_id": uuid.NewString(),
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetReportEndpoint(t *testing.T) {
	env := newTestEnv(t)

	report := &model.Report{ID: uuid.New(), TeamID: env.principal.TeamID, Title: "Stored"}
	env.store.reports[report.ID] = report

	rec := env.do(t, http.MethodGet, "/reports/"+report.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/reports/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/reports/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReportsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.store.reports[uuid.New()] = &model.Report{ID: uuid.New(), TeamID: env.principal.TeamID}
	env.store.reports[uuid.New()] = &model.Report{ID: uuid.New(), TeamID: uuid.New()}

	rec := env.do(t, http.MethodGet, "/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []model.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestDownloadReportEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// Generate for real so the download has an artifact to serve.
	created := env.do(t, http.MethodPost, "/reports", gin.H{
		"title":   "June Compliance",
		"type":    "compliance_summary",
		"formats": []string{"csv"},
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var resp struct {
		Data model.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	rec := env.do(t, http.MethodGet, "/reports/"+resp.Data.ID.String()+"/download?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=")
	assert.Contains(t, rec.Body.String(), "PPE Compliance Summary")
}

func TestEndpointsRequirePrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc, err := service.NewReportService(&stubRecords{}, &stubStore{reports: map[uuid.UUID]*model.Report{}}, &stubScopes{}, render.DefaultRegistry(), t.TempDir(), 30, 365, zerolog.Nop())
	require.NoError(t, err)

	router := gin.New()
	NewHandler(svc, zerolog.Nop()).Register(router, func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
