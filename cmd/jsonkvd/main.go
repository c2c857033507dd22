package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jsonkv"
	"github.com/signadot/jsonkv/httpapi"
	"github.com/signadot/jsonkv/notify"
	"github.com/signadot/jsonkv/server"
)

type Config struct {
	ConfigFile string `cli:"name=config desc='path to YAML config file'"`
	Addr       string `cli:"name=addr desc='JSON-RPC listen address'"`
	HTTPAddr   string `cli:"name=http desc='HTTP API listen address'"`
	LogLevel   string `cli:"name=log desc='log level: debug, info, warn, error'"`
}

func main() {
	cfg := &Config{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("jsonkvd").
		WithSynopsis("jsonkvd [-config file] [-addr host:port]").
		WithDescription("jsonkvd serves a JSON document store with change notifications.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
	cli.MainContext(context.Background(), cmd)
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	srvCfg := server.DefaultConfig()
	if cfg.ConfigFile != "" {
		loaded, err := server.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return err
		}
		srvCfg = loaded
	}
	if cfg.Addr != "" {
		srvCfg.Addr = cfg.Addr
	}
	if cfg.HTTPAddr != "" {
		srvCfg.HTTPAddr = cfg.HTTPAddr
	}
	if cfg.LogLevel != "" {
		srvCfg.LogLevel = cfg.LogLevel
	}
	level, err := srvCfg.SlogLevel()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	hub := notify.NewHub(&notify.HubConfig{Log: log, Buffer: srvCfg.Notify.Buffer})
	bus := notify.Publisher(hub)
	if k := srvCfg.Notify.Kafka; k != nil {
		kb := notify.NewKafkaBus(&notify.KafkaConfig{
			Brokers: k.Brokers,
			Topic:   k.Topic,
			Log:     log,
		})
		defer kb.Close()
		bus = notify.Multi(hub, kb)
		log.Info("kafka notifications enabled", "topic", k.Topic)
	}
	store := jsonkv.NewStore(jsonkv.WithBus(bus))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if srvCfg.HTTPAddr != "" {
		api := httpapi.New(store, hub, log)
		httpSrv := &http.Server{Addr: srvCfg.HTTPAddr, Handler: api.Router()}
		go func() {
			<-ctx.Done()
			httpSrv.Shutdown(context.Background())
		}()
		go func() {
			log.Info("http listening", "addr", srvCfg.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("http server failed", "error", err)
			}
		}()
	}

	srv := server.New(&server.Spec{Config: srvCfg, Store: store, Hub: hub, Log: log})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
