package helpers

import (
	"log/slog"

	"github.com/pocketbase/pocketbase/core"
)

// Logger returns the app logger tagged with the component name.
func Logger(app core.App, component string) *slog.Logger {
	return app.Logger().With("component", component)
}
