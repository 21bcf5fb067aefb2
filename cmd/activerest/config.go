package main

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/activerest/activerest/config"
	"github.com/activerest/activerest/log"
	"github.com/activerest/activerest/registry"
)

// Config is the command line surface of the tool: the connections
// to dial, the logging level and the single request to dispatch
type Config struct {
	Connections config.ConnectionsConfig
	Logging     log.Config
	Request     RequestConfig
}

func (c *Config) Use() string {
	return "activerest"
}

func (c *Config) EnvPrefix() string {
	return "ACTIVEREST"
}

func (c *Config) Binders() []config.Binder {
	return []config.Binder{&c.Connections, &c.Logging, &c.Request}
}

// RequestConfig describes the request the tool dispatches
type RequestConfig struct {
	Connection string
	Method     string
	Path       string
	Body       string
}

func (c *RequestConfig) Log(fields log.Fields) {
	fields.Add("request.connection", c.Connection)
	fields.Add("request.method", c.Method)
	fields.Add("request.path", c.Path)
}

func (c *RequestConfig) Configure(v *viper.Viper) error {
	c.Connection = v.GetString("request.connection")
	if len(c.Connection) == 0 {
		c.Connection = registry.DefaultName
	}

	c.Method = strings.ToUpper(v.GetString("request.method"))
	if len(c.Method) == 0 {
		c.Method = http.MethodGet
	}

	c.Path = v.GetString("request.path")
	if len(c.Path) == 0 {
		return config.ErrKeyNotSet{Key: "request.path"}
	}

	c.Body = v.GetString("request.body")
	return nil
}

func (c *RequestConfig) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String("request.connection", registry.DefaultName,
		"name of the connection to dispatch the request on")
	cmd.PersistentFlags().String("request.method", http.MethodGet,
		"HTTP method of the request")
	cmd.PersistentFlags().String("request.path", "",
		"request path relative to the connection base URI")
	cmd.PersistentFlags().String("request.body", "",
		"raw request body")

	return nil
}
