// Persistence models for devices, metrics history, sessions, and alerts.
package store

import "time"

// DeviceRecord tracks the lifetime of one simulated device.
type DeviceRecord struct {
	ID             uint       `gorm:"primaryKey"`
	DeviceID       string     `gorm:"uniqueIndex"`
	DeviceType     string
	SliceType      string
	ConnectedAt    time.Time
	DisconnectedAt *time.Time
	IsActive       bool `gorm:"default:true"`
	AvgLatency     float64
	AvgThroughput  float64
}

// MetricsHistory stores one aggregate snapshot per tick.
type MetricsHistory struct {
	ID                uint      `gorm:"primaryKey"`
	Timestamp         time.Time `gorm:"index"`
	SessionID         string    `gorm:"index"`
	NetworkLoad       float64
	TotalDevices      int
	AvgLatency        float64
	TotalThroughput   float64
	SliceDistribution string // JSON-encoded map of slice -> count
}

// SimulationSession records one simulator run.
type SimulationSession struct {
	ID              uint   `gorm:"primaryKey"`
	SessionID       string `gorm:"uniqueIndex"`
	StartedAt       time.Time
	EndedAt         *time.Time
	PeakNetworkLoad float64
	Configuration   string // JSON-encoded config
}

// Alert severity and type constants.
const (
	AlertHighLoad     = "high_load"
	AlertLatencySpike = "latency_spike"

	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert records a threshold violation observed on a snapshot.
type Alert struct {
	ID         uint      `gorm:"primaryKey"`
	Timestamp  time.Time `gorm:"index"`
	SessionID  string    `gorm:"index"`
	AlertType  string
	Severity   string
	Message    string
	Resolved   bool `gorm:"default:false"`
	ResolvedAt *time.Time
}
