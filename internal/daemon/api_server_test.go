package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"hashhound/internal/api"
	"hashhound/internal/logging"
	"hashhound/internal/testsupport"
)

func startTestDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*Daemon, string) {
	t.Helper()

	_, d := newTestDaemon(t, opts...)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Stop)

	addr := d.apiSrv.addr()
	if addr == "" {
		t.Fatal("api server did not bind")
	}
	return d, "http://" + addr
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestAPIStatusEndpoint(t *testing.T) {
	_, base := startTestDaemon(t)

	resp, err := http.Get(base + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var status api.DaemonStatus
	decodeBody(t, resp, &status)
	if !status.Running {
		t.Fatal("expected running status")
	}
	if len(status.Checks) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(status.Checks))
	}
}

func TestAPITypesEndpoint(t *testing.T) {
	_, base := startTestDaemon(t)

	resp, err := http.Get(base + "/api/types")
	if err != nil {
		t.Fatalf("GET /api/types: %v", err)
	}
	var payload api.HashTypeListResponse
	decodeBody(t, resp, &payload)
	if len(payload.Types) == 0 {
		t.Fatal("expected hash types in catalog")
	}
	found := false
	for _, entry := range payload.Types {
		if entry.Name == "MD5" {
			found = true
			if entry.FamilySize < 2 {
				t.Fatalf("MD5 should share its pattern with other types, family size %d", entry.FamilySize)
			}
		}
	}
	if !found {
		t.Fatal("catalog missing MD5")
	}
}

func TestAPIClassifyEndpoint(t *testing.T) {
	_, base := startTestDaemon(t)

	body, _ := json.Marshal(api.ClassifyRequest{Hashes: []string{"d41d8cd98f00b204e9800998ecf8427e"}})
	resp, err := http.Post(base+"/api/classify", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/classify: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload api.ClassifyResponse
	decodeBody(t, resp, &payload)
	if len(payload.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(payload.Results))
	}
	if !payload.Results[0].Identified() {
		t.Fatal("expected hash to be identified")
	}

	empty, _ := json.Marshal(api.ClassifyRequest{})
	resp, err = http.Post(base+"/api/classify", "application/json", bytes.NewReader(empty))
	if err != nil {
		t.Fatalf("POST /api/classify empty: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty request, got %d", resp.StatusCode)
	}
}

func TestAPIJobEndpoints(t *testing.T) {
	_, base := startTestDaemon(t)

	body, _ := json.Marshal(api.SubmitJobRequest{Title: "api batch", Hashes: []string{"d41d8cd98f00b204e9800998ecf8427e"}})
	resp, err := http.Post(base+"/api/jobs", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/jobs: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var submitted api.SubmitJobResponse
	decodeBody(t, resp, &submitted)
	if submitted.Duplicate {
		t.Fatal("first submission should not be a duplicate")
	}
	if submitted.Job.ID == 0 {
		t.Fatal("expected job id")
	}

	resp, err = http.Get(base + "/api/jobs")
	if err != nil {
		t.Fatalf("GET /api/jobs: %v", err)
	}
	var listed api.JobListResponse
	decodeBody(t, resp, &listed)
	if len(listed.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(listed.Jobs))
	}

	resp, err = http.Get(fmt.Sprintf("%s/api/jobs/%d", base, submitted.Job.ID))
	if err != nil {
		t.Fatalf("GET /api/jobs/{id}: %v", err)
	}
	var single api.JobResponse
	decodeBody(t, resp, &single)
	if single.Job.ID != submitted.Job.ID {
		t.Fatalf("expected job %d, got %d", submitted.Job.ID, single.Job.ID)
	}

	resp, err = http.Get(base + "/api/jobs/99999")
	if err != nil {
		t.Fatalf("GET missing job: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing job, got %d", resp.StatusCode)
	}

	resp, err = http.Get(base + "/api/jobs?status=bogus")
	if err != nil {
		t.Fatalf("GET bad status filter: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", resp.StatusCode)
	}
}

func TestAPILogsEndpoint(t *testing.T) {
	d, base := startTestDaemon(t)

	testsupport.WriteHashList(t, d.LogPath(), "line one", "line two", "line three")

	resp, err := http.Get(base + "/api/logs?limit=2")
	if err != nil {
		t.Fatalf("GET /api/logs: %v", err)
	}
	var payload api.LogTailResponse
	decodeBody(t, resp, &payload)
	if len(payload.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(payload.Lines))
	}
	if payload.Lines[1] != "line three" {
		t.Fatalf("expected newest line last, got %q", payload.Lines[1])
	}
	if payload.Offset == 0 {
		t.Fatal("expected a non-zero resume offset")
	}
}

func TestAPIBearerAuth(t *testing.T) {
	_, base := startTestDaemon(t, testsupport.WithAPIToken("sekrit"))

	resp, err := http.Get(base + "/api/status")
	if err != nil {
		t.Fatalf("GET without token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, base+"/api/status", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET with token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestAPIServerDisabledWithoutBind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = ""

	srv, err := newAPIServer(cfg, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("newAPIServer: %v", err)
	}
	if srv != nil {
		t.Fatal("expected nil server when bind address is empty")
	}
	if err := srv.start(context.Background()); err != nil {
		t.Fatalf("nil server start: %v", err)
	}
	srv.stop()
}
