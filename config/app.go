package config

// AppConfig identifies the running application. Its values become process
// tags on every reported event.
type AppConfig struct {
	Name    string `json:"name"`
	Context string `json:"context"`
	Version string `json:"version"`
}

func (c *AppConfig) SetDefaults() {
	if c.Name == "" {
		c.Name = "sentrybridge"
	}
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `json:"addr"`
	// AccountHeader names the request header carrying the account identifier.
	AccountHeader string `json:"account_header"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.AccountHeader == "" {
		c.AccountHeader = "X-Account"
	}
}
