package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

func TestRootCmd_Commands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{
		"login", "signup", "logout", "whoami", "search", "categories", "provider",
		"locate", "profile", "location", "settings", "tui", "mcp", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestFail(t *testing.T) {
	assert.NoError(t, fail("anything", nil))

	err := fail("search failed", domain.ErrUnauthorized)
	assert.Equal(t, "search failed: "+forms.MsgSessionExpired, err.Error())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRoleFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	role := roleFlag(cmd)

	assert.Equal(t, domain.RoleUser, role())
	require.NoError(t, cmd.Flags().Set("provider", "true"))
	assert.Equal(t, domain.RoleProvider, role())
}

func TestCommandContext(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	assert.NotNil(t, commandContext(cmd))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.SetContext(ctx)
	assert.Equal(t, ctx, commandContext(cmd))
}

func TestNotConfigured(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"search"}, "browse controller not configured"},
		{[]string{"categories"}, "category service not configured"},
		{[]string{"provider", "show", "p1"}, "detail service not configured"},
		{[]string{"locate"}, "location service not configured"},
		{[]string{"profile", "show"}, "profile service not configured"},
		{[]string{"location", "show"}, "location picker not configured"},
		{[]string{"settings", "show"}, "settings service not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := execute(t, Services{}, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
