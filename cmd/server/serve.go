package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/file_store"
	"github.com/Luismorlan/yatube/server"
	"github.com/Luismorlan/yatube/utils"
	"github.com/Luismorlan/yatube/utils/dotenv"
	. "github.com/Luismorlan/yatube/utils/flag"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the api server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	Log.Info("api server shutdown")
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	utils.StartTracer()
	if dotenv.IsProdEnv() {
		if err := utils.StartProfiler(); err != nil {
			Log.WithError(err).Warn("fail to start profiler")
		}
	}
	defer cleanup()

	setting, db, err := setup()
	if err != nil {
		return err
	}
	fragmentCache, err := cache.NewFromSetting(ctx, setting)
	if err != nil {
		return errors.Wrap(err, "fail to create fragment cache")
	}
	store, err := file_store.NewFromSetting(setting)
	if err != nil {
		return errors.Wrap(err, "fail to create file store")
	}
	s, err := server.New(db, fragmentCache, store, setting)
	if err != nil {
		return err
	}

	if !IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))
	server.SetupRoutes(router, s)

	srv := &http.Server{Addr: setting.LISTEN_ADDR, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		Log.WithField("addr", setting.LISTEN_ADDR).Info("api server starts up")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "api server stopped")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
