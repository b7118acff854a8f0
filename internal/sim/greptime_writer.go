package sim

import (
	"context"
	"fmt"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"slicesim/internal/device"
)

// GreptimeWriter persists aggregate snapshots to GreptimeDB via the ingester
// client, one row per tick.
type GreptimeWriter struct {
	client    greptime.Client
	db        string
	table     string
	sessionID string
}

// NewGreptimeWriter creates the writer and auto-creates the metrics table.
// sessionID tags every row so concurrent simulator runs stay separable.
func NewGreptimeWriter(endpoint, database, sessionID string) (*GreptimeWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  session_id STRING TAG,
  network_load DOUBLE,
  total_devices BIGINT,
  avg_latency DOUBLE,
  throughput DOUBLE,
  embb_devices BIGINT,
  urllc_devices BIGINT,
  mmtc_devices BIGINT,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`, device.MetricsTableName)
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	return &GreptimeWriter{
		client:    client,
		db:        database,
		table:     device.MetricsTableName,
		sessionID: sessionID,
	}, nil
}

// Write inserts a single snapshot row.
func (w *GreptimeWriter) Write(snap device.MetricsSnapshot) error {
	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.table)
	tbl.AddTagColumn("session_id", types.StringType, 0)
	tbl.AddFieldColumn("network_load", types.Float64Type)
	tbl.AddFieldColumn("total_devices", types.Int64Type)
	tbl.AddFieldColumn("avg_latency", types.Float64Type)
	tbl.AddFieldColumn("throughput", types.Float64Type)
	tbl.AddFieldColumn("embb_devices", types.Int64Type)
	tbl.AddFieldColumn("urllc_devices", types.Int64Type)
	tbl.AddFieldColumn("mmtc_devices", types.Int64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	tbl.AppendTagValue("session_id", w.sessionID)
	tbl.AppendFieldValue("network_load", snap.NetworkLoad)
	tbl.AppendFieldValue("total_devices", int64(snap.TotalDevices))
	tbl.AppendFieldValue("avg_latency", snap.AvgLatency)
	tbl.AppendFieldValue("throughput", snap.Throughput)
	tbl.AppendFieldValue("embb_devices", int64(snap.SliceDistribution[device.SliceEMBB]))
	tbl.AppendFieldValue("urllc_devices", int64(snap.SliceDistribution[device.SliceURLLC]))
	tbl.AppendFieldValue("mmtc_devices", int64(snap.SliceDistribution[device.SliceMMTC]))
	tbl.AppendTimeIndex(snap.Timestamp)

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		return fmt.Errorf("greptime write: %w", err)
	}
	return nil
}
