package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/activerest/activerest/config"
	"github.com/activerest/activerest/conn"
	"github.com/activerest/activerest/log"
	"github.com/activerest/activerest/registry"
)

var rootCtx = context.Background()

func createRegistry(cfg *Config, logger log.Logger) *registry.Registry {
	reg := registry.New()
	services := conn.Services{Logger: logger}

	if cfg.Connections.Default != nil {
		props := cfg.Connections.Default.Props()
		reg.Add(registry.DefaultName, conn.NewConnection(&services, &props))
	}

	for name, named := range cfg.Connections.Named {
		props := named.Props()
		reg.Add(name, conn.NewConnection(&services, &props))
	}

	return reg
}

func run(cfg *Config, logger log.Logger) error {
	reg := createRegistry(cfg, logger)

	cn, err := reg.Get(cfg.Request.Connection)
	if err != nil {
		return err
	}

	var body interface{}
	if len(cfg.Request.Body) > 0 {
		body = cfg.Request.Body
	}

	req, err := cn.BuildRequest(cfg.Request.Method, cfg.Request.Path, nil, nil, body)
	if err != nil {
		return err
	}

	res, err := cn.Send(rootCtx, req)
	if err != nil {
		return err
	}

	payload, err := cn.Decode(res)
	if err != nil {
		return err
	}

	fmt.Println(res.Status)
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func main() {
	cfg := &Config{}
	parser, err := config.Generate(cfg)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	if err := parser.Parse(); err != nil {
		fmt.Println(err.Error())
		_ = parser.Usage()
		os.Exit(1)
	}

	logger := log.New(&cfg.Logging)
	logger.Info(rootCtx, "dispatching request", &cfg.Request)

	if err := run(cfg, logger); err != nil {
		fmt.Println("ERROR: ", err)
		os.Exit(1)
	}
}
