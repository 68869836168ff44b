package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/config"
	"github.com/ivanvallejoss/smartexpense/internal/container"
	"github.com/ivanvallejoss/smartexpense/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messages = `user_id,date,message
1,2024-03-15,Uber al trabajo 3500
1,2024-03-16,helados 900
2,,pizza
2,2024-03-17,algo raro 500
`

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

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	input, output = "", ""
	var out, errOut bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&errOut)
	Cmd.SetArgs(args)
	err := Cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.csv")
	require.NoError(t, os.WriteFile(path, []byte(messages), 0600))
	return path
}

func TestBatchCommand_Stdout(t *testing.T) {
	c := setupApp(t)
	in := writeInput(t)

	out, summary, err := run(t, "--input", in)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "line,user_id,status,expense_id,amount"))
	assert.Contains(t, lines[1], "auto_categorized")
	assert.Contains(t, lines[1], "Transporte")
	assert.Contains(t, lines[2], "pending_confirmation")
	assert.Contains(t, lines[3], "failed")
	assert.Contains(t, lines[4], "uncategorized")

	assert.Equal(t, "Processed 4 messages: 1 auto-categorized, 2 pending, 1 failed\n", summary)

	expenses, err := c.GetStore().ListExpenses(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
}

func TestBatchCommand_OutputFile(t *testing.T) {
	setupApp(t)
	in := writeInput(t)
	outPath := filepath.Join(t.TempDir(), "out", "results.csv")

	out, _, err := run(t, "-i", in, "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Uber al trabajo")
}

func TestBatchCommand_MissingInput(t *testing.T) {
	setupApp(t)

	_, _, err := run(t, "-i", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
