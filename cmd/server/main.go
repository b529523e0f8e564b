package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Ishwaqsyed03/Brand-manager/engine"
	"github.com/Ishwaqsyed03/Brand-manager/engine/modules"
	"github.com/Ishwaqsyed03/Brand-manager/file_store"
	"github.com/Ishwaqsyed03/Brand-manager/publisher"
	"github.com/Ishwaqsyed03/Brand-manager/server"
	"github.com/Ishwaqsyed03/Brand-manager/server/middlewares"
	"github.com/Ishwaqsyed03/Brand-manager/store"
	"github.com/Ishwaqsyed03/Brand-manager/utils"
	"github.com/Ishwaqsyed03/Brand-manager/utils/dotenv"
	Flag "github.com/Ishwaqsyed03/Brand-manager/utils/flag"
	. "github.com/Ishwaqsyed03/Brand-manager/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// newFileStore picks S3 when a bucket is configured, local disk otherwise.
func newFileStore() (file_store.MediaFileStore, error) {
	if bucket := os.Getenv("S3_MEDIA_BUCKET"); bucket != "" {
		return file_store.NewS3FileStore(bucket, os.Getenv("MEDIA_URL_PREFIX"))
	}
	return file_store.NewLocalFileStore("media")
}

// newSeenStatusStore is best effort: dashboards degrade gracefully without
// redis, so a connection failure only logs.
func newSeenStatusStore() server.SeenStatusStore {
	if os.Getenv("REDIS_HOST") == "" {
		return nil
	}
	seenStore, err := utils.GetRedisStatusStore()
	if err != nil {
		Log.Warnf("redis unavailable, seen status endpoints disabled: %s", err)
		return nil
	}
	return seenStore
}

func main() {
	flag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	if !*Flag.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	Log.Infof("starting %s", *Flag.ServiceName)

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatalf("fail to connect to database: %s", err)
	}
	utils.DatabaseSetupAndMigration(db)
	gormStore := store.NewGormStore(db)

	files, err := newFileStore()
	if err != nil {
		Log.Fatalf("fail to initialize file store: %s", err)
	}
	defer files.CleanUp()

	eventBus := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	registry := publisher.NewDefaultRegistry(publisher.NewDefaultHttpClient())
	orchestrator := publisher.NewOrchestrator(
		publisher.OrchestratorConfig{
			Name:           "orchestrator",
			PublishTimeout: publisher.DefaultPublishTimeout,
		},
		registry,
		gormStore,
		store.NewUserConnectionProvider(gormStore),
		eventBus,
	)
	scheduler := modules.NewScheduler(modules.SchedulerConfig{Name: "scheduler"}, eventBus)
	worker := modules.NewWorker(modules.WorkerConfig{Name: "worker"}, eventBus, gormStore, orchestrator)

	engineModules := []engine.Module{scheduler, worker}
	if statsdClient, err := statsd.New(os.Getenv("DD_AGENT_ADDR")); err != nil {
		Log.Warnf("statsd unavailable, metrics reporting disabled: %s", err)
	} else {
		engineModules = append(engineModules,
			modules.NewReporter(modules.ReporterConfig{Name: "reporter"}, statsdClient, eventBus))
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := engine.NewEngine(engineModules, ctx, cancel, eventBus)
	go e.Run()

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middlewares.HeaderIdentity())

	srv := server.NewServer(
		gormStore,
		gormStore,
		orchestrator,
		scheduler,
		files,
		newSeenStatusStore(),
	)
	srv.RegisterRoutes(router)

	httpServer := &http.Server{Addr: ":8080", Handler: router}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			Log.Fatalf("api server stopped: %s", err)
		}
	}()
	Log.Info("api server starts up")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	Log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		Log.Errorf("fail to shutdown api server cleanly: %s", err)
	}
	e.Shutdown()
}
