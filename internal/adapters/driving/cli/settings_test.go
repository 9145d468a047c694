package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
)

// mockSettingsService implements driving.SettingsService in memory.
type mockSettingsService struct {
	settings    domain.Settings
	getErr      error
	updateErr   error
	updated     *domain.Settings
	resetCalled bool
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.getErr
}

func (m *mockSettingsService) Update(s domain.Settings) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if err := s.Validate(); err != nil {
		return err
	}
	m.updated = &s
	m.settings = s
	return nil
}

func (m *mockSettingsService) Reset() error {
	m.resetCalled = true
	m.settings = domain.DefaultSettings()
	return nil
}

func setupSettingsTest(t *testing.T) *mockSettingsService {
	t.Helper()
	mock := &mockSettingsService{settings: domain.DefaultSettings()}
	old := settingsService
	settingsService = mock
	t.Cleanup(func() { settingsService = old })
	return mock
}

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsCmd_Show(t *testing.T) {
	mock := setupSettingsTest(t)
	mock.settings.Model = "llama3.2"
	mock.settings.OutputDir = "/tmp/summaries"

	out, err := executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Provider]")
	assert.Contains(t, out, "Provider: ollama")
	assert.Contains(t, out, "Model: llama3.2")
	assert.Contains(t, out, "[Chunking]")
	assert.Contains(t, out, "Strategy: sentence")
	assert.Contains(t, out, "Directory: /tmp/summaries")
}

func TestSettingsCmd_ShowIsDefaultSubcommand(t *testing.T) {
	setupSettingsTest(t)

	out, err := executeCommand("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsCmd_SetString(t *testing.T) {
	mock := setupSettingsTest(t)

	out, err := executeCommand("settings", "set", "provider", "anthropic")

	require.NoError(t, err)
	assert.Contains(t, out, "Set provider to anthropic.")
	require.NotNil(t, mock.updated)
	assert.Equal(t, domain.ProviderAnthropic, mock.updated.Provider)
}

func TestSettingsCmd_SetInt(t *testing.T) {
	mock := setupSettingsTest(t)

	_, err := executeCommand("settings", "set", "chunk_size", "4000")

	require.NoError(t, err)
	require.NotNil(t, mock.updated)
	assert.Equal(t, 4000, mock.updated.ChunkSize)
}

func TestSettingsCmd_SetFloat(t *testing.T) {
	mock := setupSettingsTest(t)

	_, err := executeCommand("settings", "set", "requests_per_second", "2.5")

	require.NoError(t, err)
	require.NotNil(t, mock.updated)
	assert.Equal(t, 2.5, mock.updated.RequestsPerSecond)
}

func TestSettingsCmd_SetUnknownKey(t *testing.T) {
	setupSettingsTest(t)

	_, err := executeCommand("settings", "set", "colour", "blue")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting: colour")
}

func TestSettingsCmd_SetInvalidNumber(t *testing.T) {
	setupSettingsTest(t)

	_, err := executeCommand("settings", "set", "concurrency", "lots")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for concurrency")
}

func TestSettingsCmd_SetRejectsInvalidSettings(t *testing.T) {
	mock := setupSettingsTest(t)

	_, err := executeCommand("settings", "set", "provider", "skynet")

	require.Error(t, err)
	assert.Nil(t, mock.updated)
}

func TestSettingsCmd_Reset(t *testing.T) {
	mock := setupSettingsTest(t)
	mock.settings.ChunkSize = 9999

	out, err := executeCommand("settings", "reset")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings restored to defaults.")
	assert.True(t, mock.resetCalled)
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	old := settingsService
	settingsService = nil
	defer func() { settingsService = old }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsCmd_GetError(t *testing.T) {
	mock := setupSettingsTest(t)
	mock.getErr = errors.New("config file corrupt")

	_, err := executeCommand("settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file corrupt")
}
