package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	_, err := execute(t, Services{}, "", "mcp", "serve")

	require.Error(t, err)
	assert.ErrorIs(t, err, mcp.ErrMissingBrowser)
}

func TestNewMCPServer(t *testing.T) {
	Configure(Services{Browser: &fakeBrowser{}, Detail: &fakeDetail{}, Settings: newFakeSettings()})
	defer Configure(Services{})

	server, err := newMCPServer()

	require.NoError(t, err)
	assert.NotNil(t, server)
}
