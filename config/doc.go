/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads storage connection settings from YAML, a .env file
// and STORAGE_* environment variables.
//
// A minimal file:
//
//	storage:
//	  provider: dynamodb
//	  region: us-east-1
//	  endpoint: localhost:8000
//	  application_key: local
//	  private_key: local
//	logging:
//	  level: debug
//	  format: console
package config
