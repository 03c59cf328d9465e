// Package config provides centralized configuration management for shipreport.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority, a .env file is loaded first)
//	2. Configuration file (shipreport.yaml or configs/shipreport.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SHIPREPORT_* for namespacing:
//
//	SHIPREPORT_INPUT_PATH=data.json
//	SHIPREPORT_REPORT_SHIPMENTS_PATH=output.csv
//	SHIPREPORT_REPORT_STATS_PATH=delivery_stats.csv
//	SHIPREPORT_REPORT_WORKBOOK_PATH=report.xlsx
//	SHIPREPORT_PROCESSING_TIME_ZONE=Asia/Kolkata
//	SHIPREPORT_PROCESSING_ERROR_POLICY=abort
//	SHIPREPORT_LOGGING_LEVEL=debug
//	SHIPREPORT_TELEMETRY_METRICS_FILE=shipreport.prom
//
// With nothing configured the run reads data.json and writes output.csv and
// delivery_stats.csv in the working directory.
//
// # Path Management
//
// Paths resolves every configured name against a base directory:
//
//	paths, err := config.GetPaths(cfg)
//	if err := paths.EnsureDirectories(); err != nil { ... }
//
// # Testing
//
// Use LoadWithOptions with an explicit ConfigFile and t.Setenv to exercise
// precedence without touching the working directory.
package config
