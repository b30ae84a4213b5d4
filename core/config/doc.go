// Package config provides configuration management for the Wordle tracker.
//
// It utilizes Viper for loading configuration from environment variables and
// a .env file (via godotenv), with defaults declared as struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: relational store connection details
//   - Storage: S3/MinIO credentials for the announcement archive
//   - Log: logging level and format
//   - Discord: gateway token, tracked channel and upstream bot identity
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
