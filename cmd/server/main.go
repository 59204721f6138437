package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	weequery "github.com/dracory/weequery"
	"github.com/dracory/weequery/shared/session"
)

func main() {
	// Load configuration (flags override env)
	cfg, flags, err := weequery.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app := weequery.New(cfg)

	if flags.Import != "" {
		p, err := app.Profiles().ImportProperties(flags.Import)
		if err != nil {
			log.Fatalf("import %s: %v", flags.Import, err)
		}
		slog.Info("profile imported", slog.String("name", p.Name), slog.String("type", p.Type), slog.String("file", app.Config().ProfilesFile))
	}

	mux := http.NewServeMux()
	mux.Handle(app.Config().BasePath, app.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           weequery.RequestLogger(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("WeeQuery listening", slog.String("addr", addr), slog.String("mount", app.Config().BasePath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Warn("shutdown", slog.String("error", err.Error()))
	}
	if err := session.CloseAll(); err != nil {
		slog.Warn("closing connections", slog.String("error", err.Error()))
	}
}
