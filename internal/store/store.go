package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"slicesim/internal/device"
)

// Store persists devices, snapshot history, sessions, and alerts to Postgres.
// It implements the simulator's SnapshotWriter so every tick lands in
// metrics_history.
type Store struct {
	db         *gorm.DB
	sessionID  string
	thresholds Thresholds

	mu       sync.Mutex
	peakLoad float64
}

// Open connects to Postgres, migrates the schema, and opens a new simulation
// session.
func Open(dsn string, thresholds Thresholds) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&DeviceRecord{}, &MetricsHistory{}, &SimulationSession{}, &Alert{}); err != nil {
		return nil, fmt.Errorf("migrate tables: %w", err)
	}
	return &Store{
		db:         db,
		sessionID:  uuid.New().String(),
		thresholds: thresholds,
	}, nil
}

// SessionID returns the identifier of the current simulation session.
func (s *Store) SessionID() string {
	return s.sessionID
}

// StartSession records the beginning of a simulator run.
func (s *Store) StartSession(cfg any) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.db.Create(&SimulationSession{
		SessionID:     s.sessionID,
		StartedAt:     time.Now().UTC(),
		Configuration: string(raw),
	}).Error
}

// EndSession marks the session finished with its peak load.
func (s *Store) EndSession() error {
	s.mu.Lock()
	peak := s.peakLoad
	s.mu.Unlock()

	now := time.Now().UTC()
	return s.db.Model(&SimulationSession{}).
		Where("session_id = ?", s.sessionID).
		Updates(map[string]any{"ended_at": &now, "peak_network_load": peak}).Error
}

// Write persists one aggregate snapshot and raises any threshold alerts.
func (s *Store) Write(snap device.MetricsSnapshot) error {
	dist, err := json.Marshal(snap.SliceDistribution)
	if err != nil {
		return err
	}
	row := MetricsHistory{
		Timestamp:         snap.Timestamp,
		SessionID:         s.sessionID,
		NetworkLoad:       snap.NetworkLoad,
		TotalDevices:      snap.TotalDevices,
		AvgLatency:        snap.AvgLatency,
		TotalThroughput:   snap.Throughput,
		SliceDistribution: string(dist),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("insert metrics history: %w", err)
	}

	s.mu.Lock()
	if snap.NetworkLoad > s.peakLoad {
		s.peakLoad = snap.NetworkLoad
	}
	s.mu.Unlock()

	for _, a := range EvaluateAlerts(snap, s.thresholds) {
		a.SessionID = s.sessionID
		if err := s.db.Create(&a).Error; err != nil {
			return fmt.Errorf("insert alert: %w", err)
		}
	}
	return nil
}

// RecordConnect persists a new device record.
func (s *Store) RecordConnect(d device.Device) error {
	return s.db.Create(&DeviceRecord{
		DeviceID:      d.ID,
		DeviceType:    string(d.Type),
		SliceType:     string(d.Slice),
		ConnectedAt:   d.ConnectedAt,
		IsActive:      true,
		AvgLatency:    d.Latency,
		AvgThroughput: d.Throughput,
	}).Error
}

// RecordDisconnect marks a device record inactive.
func (s *Store) RecordDisconnect(deviceID string) error {
	now := time.Now().UTC()
	return s.db.Model(&DeviceRecord{}).
		Where("device_id = ? AND is_active", deviceID).
		Updates(map[string]any{"is_active": false, "disconnected_at": &now}).Error
}

// RecentHistory returns up to limit persisted snapshots, newest first.
func (s *Store) RecentHistory(limit int) ([]MetricsHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []MetricsHistory
	err := s.db.Where("session_id = ?", s.sessionID).
		Order("timestamp desc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// OpenAlerts returns unresolved alerts for the current session.
func (s *Store) OpenAlerts() ([]Alert, error) {
	var alerts []Alert
	err := s.db.Where("session_id = ? AND NOT resolved", s.sessionID).
		Order("timestamp desc").
		Find(&alerts).Error
	return alerts, err
}

// Close ends the session and closes the database connection.
func (s *Store) Close() error {
	if err := s.EndSession(); err != nil {
		return err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
