package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		envLevel    string
		flagLevel   string
		expectLevel logrus.Level
	}{
		{
			name:        "default level",
			expectLevel: logrus.InfoLevel,
		},
		{
			name:        "env variable set",
			envLevel:    "debug",
			expectLevel: logrus.DebugLevel,
		},
		{
			name:        "flag overrides env",
			envLevel:    "debug",
			flagLevel:   "warn",
			expectLevel: logrus.WarnLevel,
		},
		{
			name:        "invalid level defaults to info",
			envLevel:    "invalid",
			expectLevel: logrus.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetTestEnv(t)
			if tt.envLevel != "" {
				t.Setenv("LOG_LEVEL", tt.envLevel)
			}
			logLevel = tt.flagLevel

			var buf bytes.Buffer
			logger := configureLoggerWithOutput(&buf)

			assert.Equal(t, tt.expectLevel, logger.GetLevel())
			if tt.envLevel == "invalid" {
				assert.Contains(t, buf.String(), "Invalid LOG_LEVEL 'invalid'")
			}
		})
	}
}

func TestLogFormatConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		wantJSON bool
		wantWarn bool
	}{
		{name: "default text", wantJSON: false},
		{name: "json", envVal: "json", wantJSON: true},
		{name: "explicit text", envVal: "text", wantJSON: false},
		{name: "unknown falls back to text", envVal: "yaml", wantJSON: false, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetTestEnv(t)
			if tt.envVal != "" {
				t.Setenv("LOG_FORMAT", tt.envVal)
			}

			var buf bytes.Buffer
			logger := configureLoggerWithOutput(&buf)

			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
			assert.Equal(t, tt.wantWarn, bytes.Contains(buf.Bytes(), []byte("Invalid LOG_FORMAT")))
		})
	}
}

func TestLoadEnvDatabasePath(t *testing.T) {
	home := t.TempDir()
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	tests := []struct {
		name    string
		flagVal string
		envVal  string
		want    string
	}{
		{name: "default in home", want: filepath.Join(home, ".filmroll.db")},
		{name: "env variable", envVal: "/var/lib/filmroll/rolls.db", want: "/var/lib/filmroll/rolls.db"},
		{name: "tilde is expanded", envVal: "~/film/rolls.db", want: filepath.Join(home, "film", "rolls.db")},
		{name: "flag overrides env", flagVal: "/tmp/flag.db", envVal: "/tmp/env.db", want: "/tmp/flag.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetTestEnv(t)
			t.Setenv("HOME", home)
			if tt.envVal != "" {
				t.Setenv("FILMROLL_DB", tt.envVal)
			}
			dbPath = tt.flagVal

			_, err := loadEnvE()
			require.NoError(t, err)
			assert.Equal(t, tt.want, dbPath)
		})
	}
}

func TestLoadEnvBooleans(t *testing.T) {
	resetTestEnv(t)
	t.Setenv("FILMROLL_DB", filepath.Join(t.TempDir(), "rolls.db"))
	t.Setenv("FULL_STOP_ONLY", "true")
	t.Setenv("DEBUG_DUMP", "false")

	_, err := loadEnvE()
	require.NoError(t, err)
	assert.True(t, fullStopOnly)
	assert.False(t, debugDump)
}

func TestStartupSummary(t *testing.T) {
	resetTestEnv(t)
	dbPath = "/tmp/rolls.db"
	fullStopOnly = true

	var buf bytes.Buffer
	logger := configureLoggerWithOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logStartupSummary(logger)
	assert.Contains(t, buf.String(), "db=/tmp/rolls.db")
	assert.Contains(t, buf.String(), "full-stop=true")

	buf.Reset()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logStartupSummary(logger)
	assert.Contains(t, buf.String(), `"database":"/tmp/rolls.db"`)
	assert.Contains(t, buf.String(), `"fullStopOnly":true`)
}

// resetTestEnv clears the configuration environment and globals for one test.
func resetTestEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"FILMROLL_DB", "LOG_LEVEL", "LOG_FORMAT", "FULL_STOP_ONLY", "DEBUG_DUMP"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	dbPath = ""
	logLevel = ""
	logFormat = ""
	fullStopOnly = false
	debugDump = false
	t.Cleanup(func() {
		dbPath = ""
		logLevel = ""
		logFormat = ""
		fullStopOnly = false
		debugDump = false
	})
}
