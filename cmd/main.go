package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/username-relay/relay-service/pkg/configuration"
	"github.com/username-relay/relay-service/pkg/log"
	"github.com/username-relay/relay-service/pkg/server"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

func main() {
	// create logger and registry
	log.Init("relay-service")

	// Parse flags
	var configFilePath, host string
	var port int
	var debug bool
	pflag.StringVar(&configFilePath, "config", "", "path to the config file to read (if none is given, defaults will be used)")
	pflag.StringVar(&host, "host", "", "host to listen on, overrides the configured HTTP address")
	pflag.IntVar(&port, "port", 0, "port to listen on, overrides the configured HTTP address")
	pflag.BoolVar(&debug, "debug", false, "enable debug logging and the gin debug mode")
	pflag.Parse()

	// Override default -config switch with environment variable only if -config
	// switch was not explicitly given via the command line.
	configSwitchIsSet := false
	pflag.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			configSwitchIsSet = true
		}
	})
	if !configSwitchIsSet {
		if envConfigPath, ok := os.LookupEnv(configuration.EnvPrefix + "_CONFIG_FILE_PATH"); ok {
			configFilePath = envConfigPath
		}
	}

	cfg, err := configuration.New(configFilePath)
	if err != nil {
		panic(err.Error())
	}
	if err := overrideAddress(cfg, host, port); err != nil {
		panic(err.Error())
	}
	if debug {
		cfg.GetViperInstance().Set("log.level", "debug")
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := log.Configure(cfg.GetLogLevel(), cfg.IsLogJSON()); err != nil {
		panic(err.Error())
	}

	reg := prometheus.NewRegistry()
	srv := server.New(cfg)
	err = srv.SetupRoutes(reg)
	if err != nil {
		panic(err.Error())
	}
	metricsSrv, _ := server.StartMetricsServer(reg, cfg.GetMetricsAddress())

	routesToPrint := srv.GetRegisteredRoutes()
	log.Infof(context.TODO(), "Configured routes: %s", routesToPrint)
	log.Infof(context.TODO(), "Relaying checks to %s", cfg.GetRemoteURL())

	// listen concurrently to allow for graceful shutdown
	go func() {
		log.Infof(context.TODO(), "Service Revision %s built on %s", configuration.Commit, configuration.BuildTime)
		log.Infof(context.TODO(), "Listening on %q...", srv.Config().GetHTTPAddress())
		if err := srv.HTTPServer().ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(context.TODO(), err, err.Error())
		}
	}()

	gracefulShutdown(srv.Config().GetGracefulTimeout(), srv.HTTPServer(), metricsSrv)
}

// overrideAddress replaces the host and/or the port of the configured HTTP
// address when they were given on the command line.
func overrideAddress(cfg *configuration.Registry, host string, port int) error {
	if host == "" && port == 0 {
		return nil
	}
	configuredHost, configuredPort, err := net.SplitHostPort(cfg.GetHTTPAddress())
	if err != nil {
		return err
	}
	if host != "" {
		configuredHost = host
	}
	if port != 0 {
		configuredPort = strconv.Itoa(port)
	}
	cfg.GetViperInstance().Set("http.address", net.JoinHostPort(configuredHost, configuredPort))
	return nil
}

func gracefulShutdown(timeout time.Duration, hss ...*http.Server) {
	// For a channel used for notification of just one signal value, a buffer of
	// size 1 is sufficient.
	stop := make(chan os.Signal, 1)

	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C) or SIGTERM
	// (Ctrl+/). SIGKILL, SIGQUIT will not be caught.
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sigReceived := <-stop
	log.Infof(context.TODO(), "Signal received: %+v", sigReceived.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	log.Infof(context.TODO(), "Shutdown with timeout: %s", timeout.String())
	for _, hs := range hss {
		if err := hs.Shutdown(ctx); err != nil {
			log.Errorf(context.TODO(), err, "Shutdown error")
		} else {
			log.Infof(context.TODO(), "Server on %s stopped.", hs.Addr)
		}
	}
}
