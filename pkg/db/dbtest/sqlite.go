// Package dbtest opens isolated in-memory sqlite databases carrying the
// service schema for repository tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const schema = `
CREATE TABLE IF NOT EXISTS organizations (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  sponsor_dealership_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS persons (
  id TEXT PRIMARY KEY,
  organization_id TEXT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS repair_orders (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  dealership_id TEXT NOT NULL,
  ro_number TEXT NOT NULL,
  vin TEXT NOT NULL,
  make TEXT NOT NULL,
  year INTEGER NOT NULL,
  model TEXT NOT NULL,
  customer TEXT NOT NULL,
  date_last_submitted DATETIME,
  date_closed DATETIME,
  closed_by_person_id TEXT,
  created_by_person_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS parts_orders (
  id TEXT PRIMARY KEY,
  repair_order_id TEXT NOT NULL,
  parts_order_number INTEGER NOT NULL,
  stage TEXT NOT NULL,
  status TEXT NOT NULL,
  parts TEXT NOT NULL DEFAULT '[]',
  approval_flag INTEGER,
  sales_order_number TEXT,
  date_submitted DATETIME,
  date_reviewed DATETIME,
  date_shipped DATETIME,
  date_received DATETIME,
  submitted_by_person_id TEXT,
  reviewed_by_person_id TEXT,
  shipped_by_person_id TEXT,
  received_by_person_id TEXT,
  version INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (repair_order_id, parts_order_number)
);
CREATE TABLE IF NOT EXISTS activity_log_items (
  id TEXT PRIMARY KEY,
  parts_order_id TEXT NOT NULL,
  stage TEXT NOT NULL,
  type TEXT NOT NULL,
  comment TEXT,
  person_id TEXT,
  created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS file_assets (
  id TEXT PRIMARY KEY,
  repair_order_id TEXT NOT NULL,
  parts_order_id TEXT,
  kind TEXT NOT NULL,
  object_name TEXT NOT NULL,
  file_name TEXT NOT NULL,
  content_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL DEFAULT 0,
  uploaded_by_person_id TEXT NOT NULL,
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_outbox_events_event_aggregate
  ON outbox_events (event_type, aggregate_type, aggregate_id)
  WHERE event_type IN ('repair_order_created', 'repair_order_completed');
CREATE TABLE IF NOT EXISTS outbox_dlq (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload_json TEXT NOT NULL,
  error_reason TEXT NOT NULL,
  error_message TEXT,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  failed_at DATETIME,
  created_at DATETIME
);`

// Open returns a fresh in-memory database with every table created. Each
// call gets its own database so tests never share rows.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.Exec(schema).Error)
	return conn
}
