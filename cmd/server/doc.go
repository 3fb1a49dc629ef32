// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

/*
Package main is the entry point for the Outfitter server.

Outfitter stores a wardrobe of classified garment images, suggests outfits for
the current weather and ranks top/bottom pairs with a siamese compatibility
model. The model is provisioned from an MLflow-style registry when one is
configured, falling back to local checkpoint files.

# Application Architecture

	RootSupervisor ("outfitter")
	├── DataSupervisor ("data-layer")
	│   ├── Event bus closer
	│   ├── Model audit subscriber
	│   └── Backup scheduler (when BACKUP_DIR is set)
	├── ModelSupervisor ("model-layer")
	│   └── Model warm-up (one shot, optional)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Component initialization order:

 1. Configuration: koanf v2 from defaults, config file and environment
 2. Logging: zerolog with JSON or console output
 3. Wardrobe: badger store, the upload directory and optional backups
 4. Model provisioning: registry client behind a circuit breaker, local
    checkpoint store and the lifecycle event bus
 5. Weather: OpenWeatherMap source with LRU cache and rate limiter
 6. HTTP: chi router with the middleware stack
 7. Supervisor tree

# Configuration

Environment variables override the config file, which overrides defaults:

	HTTP_PORT=8000
	LOG_LEVEL=info
	LOG_FORMAT=json
	MODEL_REGISTRY=mlflow               # mlflow, file or none
	MLFLOW_TRACKING_URI=http://localhost:5000
	MLFLOW_MODEL_NAME=compatibility-model
	MLFLOW_MODEL_STAGE=Production
	OPENWEATHER_API_KEY=<key>
	WARDROBE_PATH=/data/wardrobe

# Graceful Shutdown

SIGINT and SIGTERM cancel the root context. Suture stops every layer within
the configured shutdown timeout and reports any service that did not stop.
*/
package main
