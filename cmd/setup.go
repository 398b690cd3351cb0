package cmd

import "Folio/pkg/engine"

// SetupEngine makes the engine available to all command handlers
func SetupEngine(e *engine.Engine) {
	appEngine = e
}

// SetVersion sets the version string shown by the version command
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
