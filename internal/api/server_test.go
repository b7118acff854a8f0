package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"slicesim/internal/config"
	"slicesim/internal/device"
	"slicesim/internal/sim"
)

func newTestServer(t *testing.T) (*Server, *sim.Simulator) {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.Users = []config.User{
		{Username: "admin", Password: "admin123", Role: "admin"},
		{Username: "demo", Password: "demo123", Role: "viewer"},
	}
	simulator := sim.NewSimulator(cfg, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(simulator, nil, cfg, logger), simulator
}

func doJSON(t *testing.T, s *Server, method, path, body string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echoContentType, "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, out
}

const echoContentType = "Content-Type"

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec, body := doJSON(t, s, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "healthy" {
		t.Errorf("unexpected status: %v", body["status"])
	}
}

func TestHandleStatusReflectsRunState(t *testing.T) {
	s, simulator := newTestServer(t)

	_, body := doJSON(t, s, http.MethodGet, "/api/status", "", nil)
	if body["status"] != "stopped" {
		t.Errorf("expected stopped, got %v", body["status"])
	}

	simulator.Start(t.Context())
	defer simulator.Stop()
	_, body = doJSON(t, s, http.MethodGet, "/api/status", "", nil)
	if body["status"] != "running" {
		t.Errorf("expected running, got %v", body["status"])
	}
}

func TestHandleAddDevices(t *testing.T) {
	s, simulator := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodPost, "/api/devices",
		`{"device_type":"smartphone","slice_type":"eMBB","count":3}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	devices, _ := body["devices"].([]any)
	if len(devices) != 3 {
		t.Errorf("expected 3 created devices, got %d", len(devices))
	}
	if simulator.DeviceCount() != 3 {
		t.Errorf("expected 3 devices registered, got %d", simulator.DeviceCount())
	}
}

func TestHandleAddDevicesDefaultsCount(t *testing.T) {
	s, simulator := newTestServer(t)
	rec, _ := doJSON(t, s, http.MethodPost, "/api/devices",
		`{"device_type":"iot","slice_type":"mMTC"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if simulator.DeviceCount() != 1 {
		t.Errorf("missing count must default to 1, got %d devices", simulator.DeviceCount())
	}
}

func TestHandleAddDevicesUnknownProfile(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := doJSON(t, s, http.MethodPost, "/api/devices",
		`{"device_type":"laptop","slice_type":"eMBB","count":1}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown device/slice profile, got %d", rec.Code)
	}
}

func TestHandleRemoveDevice(t *testing.T) {
	s, simulator := newTestServer(t)
	d, err := simulator.AddDevice(device.TypeVehicle, device.SliceURLLC)
	if err != nil {
		t.Fatalf("AddDevice failed: %v", err)
	}

	rec, _ := doJSON(t, s, http.MethodDelete, "/api/devices/"+d.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec, _ = doJSON(t, s, http.MethodDelete, "/api/devices/"+d.ID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing device, got %d", rec.Code)
	}
}

func TestHandleMetrics(t *testing.T) {
	s, simulator := newTestServer(t)
	simulator.AddDevices(device.TypeSmartphone, device.SliceEMBB, 2)

	rec, body := doJSON(t, s, http.MethodGet, "/api/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["total_devices"].(float64) != 2 {
		t.Errorf("expected 2 devices, got %v", body["total_devices"])
	}
	dist, _ := body["slice_distribution"].(map[string]any)
	if len(dist) != 3 {
		t.Errorf("distribution must name all slices: %v", dist)
	}
}

func TestHandleMetricsHistory(t *testing.T) {
	s, _ := newTestServer(t)
	rec, body := doJSON(t, s, http.MethodGet, "/api/metrics/history", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["count"].(float64) != 0 {
		t.Errorf("expected empty history, got %v", body["count"])
	}
}

func TestHandleReset(t *testing.T) {
	s, simulator := newTestServer(t)
	simulator.AddDevices(device.TypeIoT, device.SliceMMTC, 5)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/reset", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if simulator.DeviceCount() != 0 {
		t.Errorf("expected registry cleared, got %d devices", simulator.DeviceCount())
	}
}

func TestHandleExport(t *testing.T) {
	s, simulator := newTestServer(t)
	t.Chdir(t.TempDir())
	simulator.AddDevice(device.TypeSmartphone, device.SliceEMBB)

	rec, body := doJSON(t, s, http.MethodPost, "/api/export", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["filename"] != "metrics_export.json" {
		t.Errorf("unexpected filename: %v", body["filename"])
	}
}

func TestWebSocketReceivesUpdates(t *testing.T) {
	s, simulator := newTestServer(t)
	simulator.AddDevice(device.TypeSmartphone, device.SliceEMBB)

	srv := httptest.NewServer(s.e)
	defer srv.Close()

	simulator.Start(t.Context())
	defer simulator.Stop()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var update struct {
		Type         string `json:"type"`
		TotalDevices int    `json:"total_devices"`
	}
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("reading ws frame failed: %v", err)
	}
	if update.Type != "metrics_update" {
		t.Errorf("unexpected frame type %q", update.Type)
	}
	if update.TotalDevices != 1 {
		t.Errorf("unexpected device count %d", update.TotalDevices)
	}
}
