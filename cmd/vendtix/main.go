package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kiosklab/vendtix/config"
	"github.com/kiosklab/vendtix/internal/adminapi"
	"github.com/kiosklab/vendtix/internal/app"
	"github.com/kiosklab/vendtix/internal/kioskapi"
	"github.com/kiosklab/vendtix/internal/webserver"
)

var (
	configFile = flag.String("c", "/etc/vendtix.yml", "config file path")
	initDB     = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer    = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("vendtix", version)
		return
	}

	cfg := config.LoadConfig(*configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDB {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ws := webserver.New(cfg, application.DB(), application.Placer(), application.Bus(), application.ConfigMgr())
	kioskapi.RegisterRoutes(ws.Root(), ws.AuthMiddleware())
	adminapi.RegisterRoutes(ws.AdminGroup())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(ws.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ws.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}
