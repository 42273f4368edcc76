package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/auth-service/internal/auth/http"
	"github.com/AlibekovAA/auth-service/internal/common/bootstrap"
	"github.com/AlibekovAA/auth-service/internal/common/constants"
	commonhttp "github.com/AlibekovAA/auth-service/internal/common/http"
	srv "github.com/AlibekovAA/auth-service/internal/common/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewAuthApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "auth service: %v\n", err)
		os.Exit(1)
	}
	log := app.Log

	handler := authhttp.NewHandler(app.Auth, app.Users, app.Config, app.Sessions, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	baseHandler := commonhttp.BuildBaseHandler(constants.LoggerServiceName, log, app.Config.CORSAllowedOrigins, mux)

	serverConfig := srv.DefaultServerConfig(app.Config.HTTPPort)
	server := srv.NewServer(serverConfig, baseHandler)

	err = srv.Run(ctx, server, serverConfig, log, constants.LoggerServiceName,
		func(ctx context.Context) error {
			log.Infof("auth service: stopping background workers")
			cancel()
			return nil
		},
		func(ctx context.Context) error {
			log.Infof("auth service: closing database pool")
			app.Close()
			return nil
		},
	)
	if err != nil {
		log.Errorf("auth service: %v", err)
		app.Close()
		os.Exit(1)
	}
}
