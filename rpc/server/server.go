package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ValentinKolb/rKV/lib/aof"
	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/lib/store/lstore"
	"github.com/ValentinKolb/rKV/lib/store/pstore"
	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/ValentinKolb/rKV/rpc/serializer"
	"github.com/ValentinKolb/rKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
)

var Logger = logger.GetLogger("rpc")

// defaultShutdownTimeout bounds the drain after an Exit command if none is configured
const defaultShutdownTimeout = 10 * time.Second

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *Server {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	registry := gometrics.NewRegistry()

	// Create the RPC server
	return &Server{
		config:     config,
		transport:  transport,
		serializer: serializer,
		registry:   registry,
		latency:    gometrics.NewRegisteredTimer("rkv.command.latency", registry),
		drained:    make(chan struct{}),
	}
}

// Server owns the store, its durability log and the transport serving it
type Server struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer

	log     *aof.File
	store   *pstore.Store
	handler IRPCServerAdapter

	registry gometrics.Registry
	latency  gometrics.Timer

	metricsServer *http.Server
	stopStats     chan struct{}

	stopping     atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
	drained      chan struct{}
}

// Store returns the store served by s. It is nil before Serve was called.
func (s *Server) Store() store.IStore {
	if s.store == nil {
		return nil
	}
	return s.store
}

// Handler returns the complete request pipeline (middleware and adapter).
// It is nil before Serve was called.
func (s *Server) Handler() IRPCServerAdapter {
	return s.handler
}

// Serve starts the RPC server
// It opens and replays the durability log before the transport starts listening.
// Serve blocks until the transport stops; after a shutdown it returns once all
// in-flight commands were answered and the log was closed.
func (s *Server) Serve() error {
	if err := s.init(); err != nil {
		return err
	}
	s.startObservability()

	err := s.transport.Listen(s.config)
	if s.stopping.Load() {
		<-s.drained
	}

	s.close()
	return err
}

// Shutdown stops accepting connections and waits until all in-flight
// commands are answered or ctx is done. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.stopping.Store(true)
		Logger.Infof("Shutting down rKV server")
		s.shutdownErr = s.transport.Shutdown(ctx)
		close(s.drained)
	})
	return s.shutdownErr
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *Server) init() error {
	// Init logger
	if err := common.InitLoggers(s.config.LogLevel, s.config.LogFormat); err != nil {
		return err
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(s.config.String())

	// Open the durability log and rebuild the store from it
	s.log = aof.Open(s.config.AOFPath, aof.Options{Sync: s.config.AOFSync})
	s.store = pstore.NewPersistentStore(lstore.NewLocalStore(), s.log, pstore.Options{Strict: s.config.AOFStrict})
	if _, err := s.store.Recover(); err != nil {
		return fmt.Errorf("failed to recover from %s: %w", s.log.Path(), err)
	}

	onExit, err := s.exitHandler()
	if err != nil {
		return err
	}

	// Build the request pipeline
	s.handler = NewLoggingMiddleware[*common.Message, *common.Message](
		NewStoreServerAdapter(s.store, onExit),
		IllegalMarker,
		s.latency,
	)

	// Configure the transport layer
	s.registerTransportHandler()

	Logger.Infof("rKV setup completed successfully")
	return nil
}

// exitHandler returns the function executed for an Exit command
func (s *Server) exitHandler() (func(), error) {
	policy := s.config.ExitPolicy
	if policy == "" {
		policy = common.ExitPolicyShutdown
	}

	switch policy {
	case common.ExitPolicyShutdown:
		timeout := time.Duration(s.config.ShutdownTimeoutSecond) * time.Second
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		return func() {
			// Shutdown waits for this very command, so it must not block it
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				if err := s.Shutdown(ctx); err != nil {
					Logger.Warningf("Shutdown after exit command: %v", err)
				}
			}()
		}, nil
	case common.ExitPolicyImmediate:
		return func() {
			Logger.Infof("Exit command received, terminating")
			os.Exit(0)
		}, nil
	case common.ExitPolicyDisabled:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid exit policy: %s", policy)
	}
}

func (s *Server) registerTransportHandler() {
	s.transport.RegisterHandler(func(req []byte) []byte {
		var msg common.Message
		var respMsg *common.Message

		// Decode the request
		if err := s.serializer.Deserialize(req, &msg); err != nil {
			respMsg = common.NewErrorResponse(
				store.WrapError(store.RetCProtocolError, "failed to deserialize request", err),
			)
		} else {
			// Let the pipeline handle the request
			resp, err := s.handler.Handle(&msg)
			if err != nil {
				respMsg = common.NewErrorResponse(err)
			} else {
				respMsg = resp
			}
		}

		// The command produced no response
		if respMsg == nil {
			return []byte{}
		}

		// Return result
		val, err := s.serializer.Serialize(*respMsg)
		if err != nil {
			Logger.Errorf("Failed to serialize response %s: %v", respMsg, err)
			val, _ = s.serializer.Serialize(*common.NewErrorResponse(
				store.WrapError(store.RetCInternalError, "failed to serialize response", err),
			))
		}
		return val
	})
}

// startObservability starts the metrics endpoint and the stats log if configured
func (s *Server) startObservability() {
	if s.config.MetricsEndpoint != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.WritePrometheus(w, true)
		})
		s.metricsServer = &http.Server{Addr: s.config.MetricsEndpoint, Handler: mux}
		go func(srv *http.Server) {
			Logger.Infof("Serving metrics on %s/metrics", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Logger.Errorf("Metrics server failed: %v", err)
			}
		}(s.metricsServer)
	}

	if s.config.StatsIntervalSecond > 0 {
		s.stopStats = make(chan struct{})
		go s.logStats(time.Duration(s.config.StatsIntervalSecond)*time.Second, s.stopStats)
	}
}

// logStats periodically writes the latency statistics to the log
func (s *Server) logStats(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			var buf bytes.Buffer
			gometrics.WriteOnce(s.registry, &buf)
			Logger.Infof("stats (%d commands):\n%s", s.latency.Count(), buf.String())
		}
	}
}

// close releases everything Serve acquired
func (s *Server) close() {
	if s.stopStats != nil {
		close(s.stopStats)
		s.stopStats = nil
	}
	if s.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = s.metricsServer.Shutdown(ctx)
		cancel()
		s.metricsServer = nil
	}
	// Commands still running after a timed out shutdown can no longer append,
	// the closed log answers them with an IOError
	if s.log != nil {
		if err := s.log.Close(); err != nil {
			Logger.Errorf("Failed to close %s: %v", s.log.Path(), err)
		}
	}
	Logger.Infof("rKV server stopped")
}
