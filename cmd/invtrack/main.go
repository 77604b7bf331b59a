package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/invtrack/invtrack/config"
	"github.com/invtrack/invtrack/internal/adminapi"
	"github.com/invtrack/invtrack/internal/app"
	"github.com/invtrack/invtrack/internal/webserver"
)

var (
	confFile = flag.String("c", "/etc/invtrack.yml", "configuration file")
	initDb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("invtrack %s\n", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	webserver.Init(application)
	adminapi.RegisterRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen()
	})
	g.Go(func() error {
		application.StartBackgroundJobs(ctx)
		<-ctx.Done()
		return webserver.Shutdown()
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("server exited", zap.Error(err))
	}
}
