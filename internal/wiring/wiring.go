// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rebund/internal/adapters/cas"
	_ "go.trai.ch/rebund/internal/adapters/config"
	_ "go.trai.ch/rebund/internal/adapters/fs"
	_ "go.trai.ch/rebund/internal/adapters/glob"
	_ "go.trai.ch/rebund/internal/adapters/logger"
	_ "go.trai.ch/rebund/internal/adapters/metrics"
	_ "go.trai.ch/rebund/internal/adapters/plugins"
	_ "go.trai.ch/rebund/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/rebund/internal/app"
)
