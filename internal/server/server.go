package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/emrgen/compliance/internal/audit"
	"github.com/emrgen/compliance/internal/auth"
	"github.com/emrgen/compliance/internal/blob"
	"github.com/emrgen/compliance/internal/cache"
	"github.com/emrgen/compliance/internal/compress"
	"github.com/emrgen/compliance/internal/config"
	"github.com/emrgen/compliance/internal/jobs"
	"github.com/emrgen/compliance/internal/service"
	"github.com/emrgen/compliance/internal/store"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server represents the server
type Server struct {
	httpPort string
}

// NewServer creates a new server
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start starts the http server
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	db := config.GetDb(cnf)

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	docStore := store.NewGormStore(db)
	if err := docStore.Migrate(); err != nil {
		return err
	}

	var kv cache.KV
	if cnf.RedisAddr != "" {
		kv = cache.NewRedis(cnf.RedisAddr)
	} else {
		kv = cache.NewMemory()
	}

	blobs := blob.NewFilesystem(cnf.BlobDir, compress.ForName(cnf.BlobCompression))

	sink := audit.NewStoreSink(docStore)
	resolver := auth.NewResolver(auth.NewStoreCapabilityProvider(docStore), docStore, kv)

	handler := NewHandler(
		service.NewDocumentService(docStore, resolver, sink),
		service.NewVersionService(docStore, resolver, blobs, sink),
		service.NewRelationService(docStore, resolver, sink),
	)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", PrincipalHeader},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(handler.Router()),
	}

	sweeper := jobs.NewAuditSweeper(
		docStore,
		time.Duration(cnf.AuditRetentionDays)*24*time.Hour,
		cnf.AuditSweepSchedule,
	)
	executor := jobs.NewTaskExecutor(nil, []jobs.CronJob{sweeper})
	executor.Run()

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting http server on: ", httpPort)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting http server: %v", err)
			}
		}
		logrus.Infof("http server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	executor.Stop()
	if err := restServer.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error stopping http server: %v", err)
	}

	wg.Wait()

	return nil
}
