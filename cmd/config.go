/**************************************************************************************************
** Configuration and environment management for the filmroll CLI.
** Handles logger configuration, environment variable loading, and global configuration state.
**************************************************************************************************/

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/majorfi/filmroll/pkg/store"
	"github.com/majorfi/filmroll/pkg/utils"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
)

// Global configuration variables
var dbPath string
var logLevel string
var logFormat string
var fullStopOnly bool
var debugDump bool

/**************************************************************************************************
** Configures the logger based on flags and environment variables. The --log-level flag wins over
** LOG_LEVEL, --log-format over LOG_FORMAT.
**
** @return *logrus.Logger - Configured logger instance
**************************************************************************************************/
func configureLogger() *logrus.Logger {
	return configureLoggerWithOutput(os.Stderr)
}

func configureLoggerWithOutput(output io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(output)

	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level != "" {
		if parsedLevel, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(parsedLevel)
		} else {
			logger.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", level)
			logger.SetLevel(logrus.InfoLevel)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	format := logFormat
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	if format != "" && !utils.Contains([]string{"json", "text"}, format) {
		logger.Warnf("Invalid LOG_FORMAT '%s', using default 'text'", format)
	}
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			FullTimestamp:    false,
			TimestampFormat:  time.RFC3339,
		})
	}

	return logger
}

/**************************************************************************************************
** Loads the .env file, environment variables and command-line flags, with flags taking precedence
** over env variables. Returns the logger together with any configuration error so tests can check
** it without exiting.
**
** @return *logrus.Logger - Configured logger
** @return error - When the default database path cannot be resolved
**************************************************************************************************/
func loadEnvE() (*logrus.Logger, error) {
	_ = godotenv.Load()
	logger := configureLogger()

	if dbPath == "" {
		dbPath = os.Getenv("FILMROLL_DB")
	}
	if dbPath == "" {
		home, err := homedir.Dir()
		if err != nil {
			return logger, fmt.Errorf("resolve home directory: %w", err)
		}
		dbPath = filepath.Join(home, utils.DefaultDatabaseName)
	}
	expanded, err := homedir.Expand(dbPath)
	if err != nil {
		return logger, fmt.Errorf("expand database path %q: %w", dbPath, err)
	}
	dbPath = expanded

	if !fullStopOnly {
		fullStopOnly = os.Getenv("FULL_STOP_ONLY") == "true"
	}
	if !debugDump {
		debugDump = os.Getenv("DEBUG_DUMP") == "true"
	}
	return logger, nil
}

/**************************************************************************************************
** loadEnv is loadEnvE for command handlers: configuration errors are fatal.
**************************************************************************************************/
func loadEnv() *logrus.Logger {
	logger, err := loadEnvE()
	if err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}
	logStartupSummary(logger)
	return logger
}

/**************************************************************************************************
** logStartupSummary logs the effective configuration at debug level.
**************************************************************************************************/
func logStartupSummary(logger *logrus.Logger) {
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); ok {
		logger.WithFields(logrus.Fields{
			"database":     dbPath,
			"fullStopOnly": fullStopOnly,
			"debugDump":    debugDump,
			"logLevel":     logger.GetLevel().String(),
		}).Debug("Configuration loaded")
		return
	}
	logger.Debugf("Starting with config: db=%s full-stop=%s debug-dump=%s level=%s",
		dbPath, utils.BoolToString(fullStopOnly), utils.BoolToString(debugDump), logger.GetLevel())
}

/**************************************************************************************************
** openStore opens the roll log at the configured path, creating its directory when missing.
**************************************************************************************************/
func openStore(logger *logrus.Logger) *store.DB {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatalf("Error creating database directory %s: %v", dir, err)
		}
	}
	db, err := store.Open(dbPath)
	if err != nil {
		logger.Fatalf("Error opening roll log %s: %v", dbPath, err)
	}
	logger.Debugf("Roll log opened at %s", dbPath)
	return db
}
