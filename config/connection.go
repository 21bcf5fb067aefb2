package config

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/activerest/activerest/conn"
	"github.com/activerest/activerest/log"
)

var updateMethods = []string{
	http.MethodPut,
	http.MethodPatch,
	http.MethodPost,
}

// ConnectionConfig holds the properties of a single connection
type ConnectionConfig struct {
	Name         string
	BaseURI      string
	ContentType  string
	UpdateMethod string
	UpdateDiff   bool
	ExchangeLog  bool
	ThrowOn4xx   bool
	ThrowOn5xx   bool
	BodyLimit    int64
	Headers      map[string]string
	Query        map[string]string
}

func (c *ConnectionConfig) Log(fields log.Fields) {
	fields.Add(c.Name+".base_uri", c.BaseURI)
	fields.Add(c.Name+".update_method", c.UpdateMethod)
	fields.Add(c.Name+".update_diff", c.UpdateDiff)
	fields.Add(c.Name+".throw_on_4xx", c.ThrowOn4xx)
	fields.Add(c.Name+".throw_on_5xx", c.ThrowOn5xx)
	fields.Add(c.Name+".body_limit", c.BodyLimit)
}

func (c *ConnectionConfig) Configure(prefix string, v *viper.Viper) error {
	c.BaseURI = v.GetString(prefix + ".base_uri")
	if len(c.BaseURI) == 0 {
		return ErrKeyNotSet{Key: prefix + ".base_uri"}
	}

	c.ContentType = v.GetString(prefix + ".content_type")

	c.UpdateMethod = strings.ToUpper(v.GetString(prefix + ".update_method"))
	if len(c.UpdateMethod) > 0 && !contains(updateMethods, c.UpdateMethod) {
		return ErrInvalidValue{
			Key:          prefix + ".update_method",
			InvalidValue: c.UpdateMethod,
			Values:       updateMethods,
		}
	}

	c.UpdateDiff = v.GetBool(prefix + ".update_diff")
	c.ExchangeLog = v.GetBool(prefix + ".log")
	c.ThrowOn4xx = v.GetBool(prefix + ".throw_on_4xx")
	c.ThrowOn5xx = v.GetBool(prefix + ".throw_on_5xx")

	c.BodyLimit = v.GetInt64(prefix + ".body_limit")
	if c.BodyLimit < 0 {
		return ErrInvalidValue{
			Key:          prefix + ".body_limit",
			InvalidValue: "negative",
			Values:       []string{"0 or a positive byte count"},
		}
	}

	c.Headers = v.GetStringMapString(prefix + ".headers")
	c.Query = v.GetStringMapString(prefix + ".query")
	return nil
}

func (c *ConnectionConfig) Bind(prefix string, v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(prefix+".base_uri", "",
		"base URI prepended to every request path")
	cmd.PersistentFlags().String(prefix+".content_type", "",
		"default Content-Type for requests that carry a body")
	cmd.PersistentFlags().String(prefix+".update_method", http.MethodPut,
		"HTTP method used for updates")
	cmd.PersistentFlags().Bool(prefix+".update_diff", false,
		"send only modified fields on updates")
	cmd.PersistentFlags().Bool(prefix+".log", false,
		"record every exchange in memory")
	cmd.PersistentFlags().Bool(prefix+".throw_on_4xx", false,
		"return 4xx responses as errors")
	cmd.PersistentFlags().Bool(prefix+".throw_on_5xx", true,
		"return 5xx responses as errors")
	cmd.PersistentFlags().Int64(prefix+".body_limit", conn.DefaultBodyLimit,
		"maximum response body size in bytes")

	return nil
}

// Props converts the configuration into connection properties
func (c *ConnectionConfig) Props() conn.Props {
	props := conn.DefaultProps()
	props.Name = c.Name
	props.BaseURI = c.BaseURI
	props.ContentType = c.ContentType
	if len(c.UpdateMethod) > 0 {
		props.UpdateMethod = c.UpdateMethod
	}
	props.UpdateDiff = c.UpdateDiff
	props.Log = c.ExchangeLog
	props.ThrowOn4xx = c.ThrowOn4xx
	props.ThrowOn5xx = c.ThrowOn5xx
	props.BodyLimit = c.BodyLimit
	props.DefaultHeaders = c.Headers
	props.DefaultQuery = c.Query
	return props
}

// ConnectionsConfig configures the default connection from the
// `connection` key and any further named connections from the
// `connections` map of a configuration file. At least one of the
// two must be present
type ConnectionsConfig struct {
	Default *ConnectionConfig
	Named   map[string]*ConnectionConfig
}

func (c *ConnectionsConfig) Log(fields log.Fields) {
	if c.Default != nil {
		c.Default.Log(fields)
	}
	for _, named := range c.Named {
		named.Log(fields)
	}
}

func (c *ConnectionsConfig) Bind(v *viper.Viper, cmd *cobra.Command) error {
	return (&ConnectionConfig{}).Bind("connection", v, cmd)
}

func (c *ConnectionsConfig) Configure(v *viper.Viper) error {
	if len(v.GetString("connection.base_uri")) > 0 {
		c.Default = &ConnectionConfig{Name: "default"}
		if err := c.Default.Configure("connection", v); err != nil {
			return err
		}
	}

	c.Named = make(map[string]*ConnectionConfig)
	for name := range v.GetStringMap("connections") {
		named := &ConnectionConfig{Name: name}
		if err := named.Configure("connections."+name, v); err != nil {
			return err
		}

		c.Named[name] = named
	}

	if c.Default == nil && len(c.Named) == 0 {
		return ErrKeyNotSet{Key: "connection.base_uri"}
	}

	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
