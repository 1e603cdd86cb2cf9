package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	auditapp "github.com/fleet/backend/internal/application/audit"
	"github.com/fleet/backend/internal/application/seed"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useSQLite points the configuration at a private in-memory database
func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("FLEET_DATABASE_DRIVER", "sqlite")
	t.Setenv("FLEET_DATABASE_SQLITE_PATH",
		fmt.Sprintf("file:fleetctl_%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", "")))
	t.Setenv("FLEET_REDIS_ENABLED", "false")
	t.Setenv("FLEET_LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateCreateAndList(t *testing.T) {
	useSQLite(t)
	dir := t.TempDir()

	out, err := execute(t, "migrate", "--path", dir, "create", "Add Plate Index", "-d", "index on plates")
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "_add_plate_index.up.sql"))
	assert.True(t, strings.HasSuffix(lines[1], "_add_plate_index.down.sql"))

	body, err := os.ReadFile(lines[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "index on plates")

	out, err = execute(t, "migrate", "--path", dir, "list")
	require.NoError(t, err)
	name := strings.TrimSuffix(filepath.Base(lines[0]), ".up.sql")
	assert.Equal(t, name+"\n", out)
}

func TestMigrateRequiresPostgres(t *testing.T) {
	useSQLite(t)

	_, err := execute(t, "migrate", "--path", t.TempDir(), "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestMigrateStepsRejectsNonNumber(t *testing.T) {
	useSQLite(t)

	_, err := execute(t, "migrate", "steps", "two")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid step count")
}

func TestSeedCommand(t *testing.T) {
	useSQLite(t)

	out, err := execute(t, "seed",
		"--seed", "7",
		"--models", "2",
		"--projects", "1",
		"--orders", "2",
		"--invoices-per-order", "1",
		"--independent-invoices", "1",
		"--items", "6",
		"--assign-ratio", "0.5",
	)
	require.NoError(t, err)

	var sum seed.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, 2, sum.Models)
	assert.Equal(t, 1, sum.Projects)
	assert.Equal(t, 2, sum.Orders)
	assert.Equal(t, 3, sum.Invoices)
	assert.Equal(t, 6, sum.Items)
	assert.Equal(t, 0, sum.Users)
}

func TestAuditCommand_EmptyDatabase(t *testing.T) {
	useSQLite(t)

	out, err := execute(t, "audit", "--strict")
	require.NoError(t, err)

	var report auditapp.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Empty(t, report.Offenders)
	assert.False(t, report.Truncated)
	assert.False(t, report.CheckedAt.IsZero())
}
