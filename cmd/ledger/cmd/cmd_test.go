package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/skilledger/internal/model"
	"github.com/templui/skilledger/internal/service"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION", filepath.Join(t.TempDir(), "ledger.db")+"?_pragma=busy_timeout(5000)&_txlock=immediate")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("AMQP_URL", "")
	t.Setenv("SENTRY_DSN", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)

	out, err = run(t, "migrate", "down")
	require.NoError(t, err)
	assert.Equal(t, "schema version 0\n", out)

	out, err = run(t, "migrate", "status")
	require.NoError(t, err)
	assert.Equal(t, "schema version 0\n", out)
}

func TestSessionAndProgressCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "session", "log", "--user", "u1", "--skill", "Python", "--minutes", "90")
	require.NoError(t, err)
	var session model.Session
	require.NoError(t, json.Unmarshal([]byte(out), &session))
	assert.Equal(t, 90, session.Minutes)

	out, err = run(t, "progress", "set", "-u", "u1", "-s", "Python", "-c", "Intro", "-p", "100")
	require.NoError(t, err)
	var update service.ProgressUpdate
	require.NoError(t, json.Unmarshal([]byte(out), &update))
	assert.Equal(t, 90, update.Progress.MinutesSpent)
	require.NotNil(t, update.Achievement)

	out, err = run(t, "progress", "list", "-u", "u1")
	require.NoError(t, err)
	var records []model.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Len(t, records, 1)

	out, err = run(t, "sessions", "-u", "u1", "-d", "7")
	require.NoError(t, err)
	var sessions []model.Session
	require.NoError(t, json.Unmarshal([]byte(out), &sessions))
	assert.Len(t, sessions, 1)

	out, err = run(t, "achievements", "-u", "u1")
	require.NoError(t, err)
	var achievements []model.Achievement
	require.NoError(t, json.Unmarshal([]byte(out), &achievements))
	require.Len(t, achievements, 1)
	assert.Equal(t, "Completed Python", achievements[0].Name)
}

func TestSessionLogRejectsInvalidInput(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "session", "log", "--user", "u1", "--skill", "Python", "--minutes", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minutes")
}

func TestCommandsRequireUser(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "progress", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user")
}

func TestTokenCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "token", "--user", "u1")
	require.NoError(t, err)

	auth := service.NewAuthService("cli-secret", 0, false)
	userID, err := auth.VerifyJWT(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}
