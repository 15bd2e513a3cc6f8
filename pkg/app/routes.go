package app

// initDefaultRoutes registers the web services enabled in the configuration.
func (app *App) initDefaultRoutes() {
	api := app.web.Group("/")
	if app.config.Webserver.Webservices["version"] {
		api.Get("/version", app.HandleVersion())
	}
	if app.config.Webserver.Webservices["health"] {
		api.Get("/health", app.HandleHealth())
	}
	if app.config.Webserver.Webservices["data"] {
		api.Get("/data", app.HandleData())
	}
	if app.config.Webserver.Webservices["stats"] {
		api.Get("/stats", app.HandleStats())
	}
	if app.config.Webserver.Webservices["keyfiles"] {
		api.Get("/keyfiles", app.HandleKeyFiles())
		api.Get("/keyfiles/:name", app.HandleKeyFile())
	}
}
