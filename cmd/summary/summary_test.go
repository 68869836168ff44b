package summary

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/config"
	"github.com/ivanvallejoss/smartexpense/internal/container"
	"github.com/ivanvallejoss/smartexpense/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *container.Container {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Driver = config.DriverMemory
	c, err := container.NewContainerWithLogger(context.Background(), cfg, logging.NewMockLogger())
	require.NoError(t, err)
	root.SetContainer(c)
	t.Cleanup(func() { _ = root.Shutdown() })
	return c
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	userID, month, asJSON = 0, "", false
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&out)
	Cmd.SetArgs(args)
	err := Cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, c *container.Container) {
	t.Helper()
	ctx := context.Background()
	loc := c.GetConfig().Location()
	svc := c.GetService()

	for _, m := range []struct {
		msg  string
		date time.Time
	}{
		{"Uber al trabajo 3000", time.Date(2024, 3, 1, 9, 0, 0, 0, loc)},
		{"pizza 1000", time.Date(2024, 3, 31, 23, 0, 0, 0, loc)},
		{"algo raro 500", time.Date(2024, 3, 10, 12, 0, 0, 0, loc)},
		{"cena 9999", time.Date(2024, 4, 1, 0, 0, 0, 0, loc)},
	} {
		_, err := svc.IngestAt(ctx, 1, m.msg, m.date)
		require.NoError(t, err)
	}
}

func TestSummaryCommand_Text(t *testing.T) {
	c := setupApp(t)
	seed(t, c)

	out, err := run(t, "--user", "1", "--month", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary of March 2024")
	assert.Contains(t, out, "Total spent: $4.500")
	assert.Contains(t, out, "Expenses: 3")
	assert.Contains(t, out, "Transporte: $3.000 (67%)")
	assert.Contains(t, out, "Comida: $1.000 (22%)")
	assert.Contains(t, out, "Uncategorized: $500 (11%)")
}

func TestSummaryCommand_JSON(t *testing.T) {
	c := setupApp(t)
	seed(t, c)

	out, err := run(t, "-u", "1", "-m", "2024-04", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "April 2024"`)
	assert.Contains(t, out, `"count": 1`)
	assert.Contains(t, out, `"total": "9999"`)
}

func TestSummaryCommand_CurrentMonth(t *testing.T) {
	c := setupApp(t)
	seed(t, c)

	orig := now
	now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	out, err := run(t, "-u", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2024")
}

func TestSummaryCommand_EmptyAndInvalid(t *testing.T) {
	setupApp(t)

	out, err := run(t, "-u", "1", "-m", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses recorded")

	_, err = run(t, "-u", "1", "-m", "marzo")
	assert.ErrorContains(t, err, "invalid --month")
}
