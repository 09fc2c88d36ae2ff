package params

type WebDaemonConfig struct {
	ListenerConfig
	Source  *SourceConfig
	Safety  *SafetyConfig
	Routes  *RouteConfig
	Details *TripDetailsConfig
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:5000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		ListenerConfig: DefaultWebListenerConfig(),
		Source:         DefaultSourceConfig(),
		Safety:         DefaultSafetyConfig(),
		Routes:         DefaultRouteConfig(),
		Details:        DefaultTripDetailsConfig(),
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	d := DefaultWebDaemonConfig()
	d.ListenerConfig = ListenerConfig{
		Network: "tcp",
		Address: "localhost:5333",
	}
	d.Source.Path = ""
	return d
}
