package page

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasksPageMarksActiveNav(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, TasksPage().Render(context.Background(), &sb))
	out := sb.String()
	assert.Contains(t, out, `data-page="tasks"`)
	assert.Contains(t, out, `href="/tasks" class="active"`)
}

func TestLoginPageHasOTPForms(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, LoginPage().Render(context.Background(), &sb))
	out := sb.String()
	assert.Contains(t, out, `id="otp-request"`)
	assert.Contains(t, out, `id="otp-verify"`)
}

func TestHomePageLinksConsole(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, HomePage().Render(context.Background(), &sb))
	assert.Contains(t, sb.String(), `href="/app"`)
}
