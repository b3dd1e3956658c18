package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gorilla/mux"

	"chat-relay-server/internal/config"
	"chat-relay-server/internal/handler"
	"chat-relay-server/internal/repository/postgres"
)

const shutdownTimeout = 30 * time.Second

// App is the main application container.
type App struct {
	Handler *handler.Handler
	Config  *config.Config
}

func main() {
	app, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := postgres.RunMigrations(app.Config.PostgresURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	r := mux.NewRouter()
	app.Handler.Register(r)

	srv := &http.Server{
		Addr:    app.Config.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on %s", app.Config.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
			"resources": func(ctx context.Context) error {
				cleanup()
				return nil
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
