package root

import (
	"context"
	"testing"

	"github.com/ivanvallejoss/smartexpense/internal/config"
	"github.com/ivanvallejoss/smartexpense/internal/container"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "smartexpense", Cmd.Use)
	assert.Contains(t, Cmd.Short, "expense messages")
	assert.NotNil(t, Cmd.PersistentPreRunE)
	assert.NotNil(t, Cmd.PersistentPostRunE)
}

func TestInit_Flags(t *testing.T) {
	Init()
	assert.NotNil(t, Cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, Cmd.PersistentFlags().Lookup("log-level"))
}

func TestApp_Lifecycle(t *testing.T) {
	t.Cleanup(func() { _ = Shutdown() })

	_, err := App()
	assert.EqualError(t, err, "application not initialized")

	cfg := config.Default()
	cfg.Store.Driver = config.DriverMemory
	c, err := container.NewContainerWithLogger(context.Background(), cfg, nil)
	require.NoError(t, err)

	SetContainer(c)
	got, err := App()
	require.NoError(t, err)
	assert.Same(t, c, got)

	// setup keeps an installed container.
	require.NoError(t, setup(&cobra.Command{}, nil))
	got, _ = App()
	assert.Same(t, c, got)

	require.NoError(t, Shutdown())
	_, err = App()
	assert.Error(t, err)
}

func TestResolveUserID(t *testing.T) {
	t.Setenv(UserIDEnv, "")
	_, err := ResolveUserID(0)
	assert.Error(t, err)

	id, err := ResolveUserID(5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	t.Setenv(UserIDEnv, "12")
	id, err = ResolveUserID(0)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	t.Setenv(UserIDEnv, "abc")
	_, err = ResolveUserID(0)
	assert.Error(t, err)
}
