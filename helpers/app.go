package helpers

import "github.com/pocketbase/pocketbase"

func CreateApp(dataDir string, dev bool) *pocketbase.PocketBase {
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir:  dataDir,
		DefaultDev:      dev,
		HideStartBanner: false,
	})

	return app
}
