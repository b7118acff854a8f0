package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"slicesim/internal/device"
	"slicesim/internal/sim"
)

// AddDevicesRequest creates count devices of one type/slice combination.
type AddDevicesRequest struct {
	DeviceType string `json:"device_type"`
	SliceType  string `json:"slice_type"`
	Count      int    `json:"count"`
}

type metricsPayload struct {
	Timestamp         time.Time                `json:"timestamp"`
	NetworkLoad       float64                  `json:"network_load"`
	TotalDevices      int                      `json:"total_devices"`
	AvgLatency        float64                  `json:"avg_latency"`
	Throughput        float64                  `json:"throughput"`
	SliceDistribution map[device.SliceType]int `json:"slice_distribution"`
}

type devicePayload struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Slice      string `json:"slice"`
	Latency    float64 `json:"latency"`
	Throughput float64 `json:"throughput"`
}

func toMetricsPayload(snap device.MetricsSnapshot) metricsPayload {
	return metricsPayload{
		Timestamp:         snap.Timestamp,
		NetworkLoad:       round2(snap.NetworkLoad),
		TotalDevices:      snap.TotalDevices,
		AvgLatency:        round2(snap.AvgLatency),
		Throughput:        round2(snap.Throughput),
		SliceDistribution: snap.SliceDistribution,
	}
}

func toDevicePayloads(summaries []device.DeviceSummary) []devicePayload {
	out := make([]devicePayload, 0, len(summaries))
	for _, d := range summaries {
		out = append(out, devicePayload{
			ID:         d.ID,
			Type:       string(d.Type),
			Slice:      string(d.Slice),
			Latency:    round2(d.Latency),
			Throughput: round2(d.Throughput),
		})
	}
	return out
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleStatus(c echo.Context) error {
	snap := s.sim.Metrics()
	status := "stopped"
	if s.sim.Running() {
		status = "running"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":             status,
		"total_devices":      snap.TotalDevices,
		"network_load":       round2(snap.NetworkLoad),
		"avg_latency":        round2(snap.AvgLatency),
		"throughput":         round2(snap.Throughput),
		"slice_distribution": snap.SliceDistribution,
		"devices":            toDevicePayloads(snap.Devices),
	})
}

func (s *Server) handleMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, toMetricsPayload(s.sim.Metrics()))
}

func (s *Server) handleMetricsHistory(c echo.Context) error {
	snaps := s.sim.History(0)
	out := make([]metricsPayload, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toMetricsPayload(snap))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"history": out,
		"count":   len(out),
	})
}

func (s *Server) handleListDevices(c echo.Context) error {
	devices := s.sim.Devices()
	out := make([]map[string]any, 0, len(devices))
	for _, d := range devices {
		out = append(out, map[string]any{
			"id":           d.ID,
			"type":         d.Type,
			"slice":        d.Slice,
			"connected_at": d.ConnectedAt,
			"latency":      round2(d.Latency),
			"throughput":   round2(d.Throughput),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"devices": out,
		"count":   len(out),
	})
}

func (s *Server) handleAddDevices(c echo.Context) error {
	var req AddDevicesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	added, err := s.sim.AddDevices(device.DeviceType(req.DeviceType), device.SliceType(req.SliceType), req.Count)
	if err != nil {
		if errors.Is(err, device.ErrUnknownProfile) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	if s.store != nil {
		for _, d := range added {
			if err := s.store.RecordConnect(d); err != nil {
				s.logger.Error("device record failed", "device_id", d.ID, "err", err)
			}
		}
	}

	out := make([]map[string]any, 0, len(added))
	for _, d := range added {
		out = append(out, map[string]any{"id": d.ID, "type": d.Type, "slice": d.Slice})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Added %d device(s)", len(added)),
		"devices": out,
	})
}

func (s *Server) handleRemoveDevice(c echo.Context) error {
	id := c.Param("id")
	if !s.sim.RemoveDevice(id) {
		return echo.NewHTTPError(http.StatusNotFound, "Device not found")
	}
	if s.store != nil {
		if err := s.store.RecordDisconnect(id); err != nil {
			s.logger.Error("device disconnect record failed", "device_id", id, "err", err)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Device %s removed successfully", id),
	})
}

func (s *Server) handleReset(c echo.Context) error {
	s.sim.Reset()
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Simulation reset successfully",
	})
}

func (s *Server) handleExport(c echo.Context) error {
	doc, err := sim.Export("metrics_export.json", s.sim.Metrics())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":     "Metrics exported successfully",
		"filename":    "metrics_export.json",
		"exported_at": doc.ExportedAt,
	})
}
