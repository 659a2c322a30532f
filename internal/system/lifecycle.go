// Package system wires the MDIB, its provider surfaces and the archive
// into one process and drives their start and shutdown.
package system

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/api/rest"
	"github.com/KevinKickass/OpenMDIB/internal/api/websocket"
	"github.com/KevinKickass/OpenMDIB/internal/archive"
	"github.com/KevinKickass/OpenMDIB/internal/auth"
	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/KevinKickass/OpenMDIB/internal/interfaces"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/metric"
	"github.com/KevinKickass/OpenMDIB/internal/profile"
	"github.com/KevinKickass/OpenMDIB/internal/provider"
	"github.com/KevinKickass/OpenMDIB/internal/simulator"
	"github.com/KevinKickass/OpenMDIB/internal/storage"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

type LifecycleManager struct {
	config  *config.Config
	logger  *zap.Logger
	mdib    *mdib.Mdib
	profile *profile.Profile

	simulator   *simulator.Simulator
	storage     *storage.PostgresClient
	recorder    *archive.Recorder
	streamer    *provider.ReportStreamer
	wsHub       *websocket.Hub
	authService *auth.AuthService
	metrics     *metric.Registry

	restServer *rest.Server
	grpcServer *grpc.Server
	grpcAddr   net.Addr

	// detach unsubscribes observers from the MDIB, in attach order.
	detach []func()

	stateMu      sync.RWMutex
	currentState SystemState
	lastError    error

	listenersMu     sync.RWMutex
	statusListeners []chan SystemStatus

	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// NewLifecycleManager builds the MDIB, composing the configured profile
// into it. Nothing is started yet.
func NewLifecycleManager(cfg *config.Config, logger *zap.Logger) (*LifecycleManager, error) {
	authService, err := auth.NewAuthService(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	metrics := metric.NewRegistry()
	opts := []mdib.Option{mdib.WithMetrics(metrics.Metrics)}
	if cfg.Mdib.SequenceID != "" {
		opts = append(opts, mdib.WithSequenceID(cfg.Mdib.SequenceID))
	}
	if cfg.Mdib.InstanceID != 0 {
		opts = append(opts, mdib.WithInstanceID(cfg.Mdib.InstanceID))
	}
	m := mdib.New(logger, opts...)

	lm := &LifecycleManager{
		config:       cfg,
		logger:       logger,
		mdib:         m,
		authService:  authService,
		metrics:      metrics,
		streamer:     provider.NewReportStreamer(m.Mapper(), cfg.Mdib.ReportBuffer, logger),
		wsHub:        websocket.NewHub(logger, authService, m.Mapper()),
		currentState: StateInitializing,
		shutdownChan: make(chan struct{}),
	}

	if cfg.Mdib.ProfilePath != "" {
		if err := lm.loadProfile(); err != nil {
			return nil, err
		}
	}
	return lm, nil
}

func (lm *LifecycleManager) loadProfile() error {
	loader, err := profile.NewProfileLoader(lm.config.Mdib.ProfileSearchPaths)
	if err != nil {
		return err
	}
	p, err := loader.Load(lm.config.Mdib.ProfilePath)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	composition, err := profile.NewComposer(lm.logger).Compose(p)
	if err != nil {
		return fmt.Errorf("failed to compose profile %s: %w", p.Info.ID, err)
	}
	report, err := composition.Apply(lm.mdib)
	if err != nil {
		return fmt.Errorf("failed to apply profile %s: %w", p.Info.ID, err)
	}
	lm.profile = p

	lm.logger.Info("Device profile composed",
		zap.String("profile", p.Info.ID),
		zap.Int("descriptors", len(composition.Descriptors)),
		zap.Int("states_applied", report.Applied),
		zap.Int("simulated_metrics", len(composition.Simulated)))

	if lm.config.Mdib.SimulationInterval > 0 && len(composition.Simulated) > 0 {
		lm.simulator = simulator.New(lm.mdib, composition.Simulated, lm.config.Mdib.SimulationInterval, lm.logger)
	}
	return nil
}

// Start starts the entire system
func (lm *LifecycleManager) Start(ctx context.Context) error {
	g := lm.mdib.Version()
	lm.logger.Info("Starting OpenMDIB provider",
		zap.String("sequence_id", g.SequenceID),
		zap.Uint64("instance_id", g.InstanceID))

	if lm.config.Archive.Enabled {
		if err := lm.startArchive(ctx); err != nil {
			lm.setError(fmt.Errorf("failed to start archive: %w", err))
			return err
		}
	}

	lm.detach = append(lm.detach, lm.streamer.Attach(lm.mdib))
	go lm.wsHub.Run()
	lm.detach = append(lm.detach, lm.wsHub.Attach(lm.mdib))

	if err := lm.startGRPCServer(); err != nil {
		lm.setError(fmt.Errorf("failed to start gRPC: %w", err))
		return err
	}

	if err := lm.startRESTServer(); err != nil {
		lm.setError(fmt.Errorf("failed to start REST API: %w", err))
		return err
	}

	if lm.simulator != nil {
		if err := lm.simulator.Start(); err != nil {
			lm.setError(fmt.Errorf("failed to start simulator: %w", err))
			return err
		}
	}

	lm.setState(StateRunning)

	lm.logger.Info("System started successfully",
		zap.Int("grpc_port", lm.config.Server.GRPCPort),
		zap.Int("http_port", lm.config.Server.HTTPPort),
		zap.Bool("archive_enabled", lm.recorder != nil),
		zap.Bool("simulation_enabled", lm.simulator != nil))

	return nil
}

func (lm *LifecycleManager) startArchive(ctx context.Context) error {
	client, err := storage.NewPostgresClient(ctx, lm.config.Database)
	if err != nil {
		return err
	}
	if err := client.Migrate(ctx); err != nil {
		client.Close()
		return fmt.Errorf("failed to migrate archive schema: %w", err)
	}
	lm.storage = client

	lm.recorder = archive.NewRecorder(client, lm.mdib.Mapper(), lm.config.Archive.QueueSize, lm.metrics.Metrics, lm.logger)
	lm.recorder.Start()
	detach, err := lm.recorder.Attach(lm.mdib)
	if err != nil {
		return err
	}
	lm.detach = append(lm.detach, detach)
	return nil
}

func (lm *LifecycleManager) startGRPCServer() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", lm.config.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	lm.grpcAddr = lis.Addr()

	lm.grpcServer = grpc.NewServer(
		grpc.ChainUnaryInterceptor(provider.UnaryLogger(lm.logger)),
		grpc.ChainStreamInterceptor(provider.StreamLogger(lm.logger)),
	)

	p := provider.NewProvider(lm.mdib, lm.streamer, lm.Archive(), lm.logger)
	if err := provider.Register(lm.grpcServer, p); err != nil {
		lis.Close()
		return err
	}

	go func() {
		lm.logger.Info("gRPC server listening", zap.String("address", lis.Addr().String()))
		if err := lm.grpcServer.Serve(lis); err != nil {
			lm.logger.Error("gRPC server failed", zap.Error(err))
		}
	}()

	return nil
}

func (lm *LifecycleManager) startRESTServer() error {
	lm.restServer = rest.NewServer(lm.config, lm, lm.logger, lm.wsHub, lm.authService)
	return lm.restServer.Start()
}

// Shutdown gracefully shuts down the system
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var shutdownErr error

	lm.shutdownOnce.Do(func() {
		lm.logger.Info("Shutting down system")

		lm.setState(StateStopping)

		shutdownErr = lm.gracefulShutdown(ctx)

		lm.setState(StateStopped)

		close(lm.shutdownChan)
	})

	return shutdownErr
}

// Done is closed once Shutdown completed.
func (lm *LifecycleManager) Done() <-chan struct{} {
	return lm.shutdownChan
}

func (lm *LifecycleManager) gracefulShutdown(ctx context.Context) error {
	if lm.simulator != nil {
		lm.simulator.Stop()
	}

	// Report streams never end on their own; GracefulStop waits for them.
	lm.streamer.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	if lm.restServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := lm.restServer.Shutdown(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("rest api shutdown failed: %w", err)
			}
		}()
	}

	if lm.grpcServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lm.logger.Info("Stopping gRPC server")
			lm.grpcServer.GracefulStop()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		lm.logger.Warn("Shutdown timeout, forcing stop")
		if lm.grpcServer != nil {
			lm.grpcServer.Stop()
		}
		err = errors.New("shutdown timeout exceeded")
	}
	// errChan is never closed; a late REST error still fits its buffer.
drain:
	for {
		select {
		case e := <-errChan:
			err = errors.Join(err, e)
		default:
			break drain
		}
	}

	for _, detach := range lm.detach {
		detach()
	}
	lm.detach = nil
	lm.wsHub.Stop()

	// The recorder drains its queue before the pool goes away.
	if lm.recorder != nil {
		lm.recorder.Stop()
	}
	if lm.storage != nil {
		lm.storage.Close()
	}

	if err == nil {
		lm.logger.Info("Graceful shutdown completed")
	}
	return err
}

func (lm *LifecycleManager) setState(state SystemState) {
	lm.stateMu.Lock()
	previous := lm.currentState
	if err := ValidateTransition(previous, state); err != nil {
		lm.stateMu.Unlock()
		lm.logger.Warn("Ignoring state change", zap.Error(err))
		return
	}
	lm.currentState = state
	lm.stateMu.Unlock()

	lm.broadcastStatus(previous)
}

func (lm *LifecycleManager) setError(err error) {
	lm.logger.Error("System failed", zap.Error(err))

	lm.stateMu.Lock()
	previous := lm.currentState
	lm.currentState = StateError
	lm.lastError = err
	lm.stateMu.Unlock()

	lm.broadcastStatus(previous)
}

// MetricsHandler serves the Prometheus metrics of the process.
func (lm *LifecycleManager) MetricsHandler() http.Handler {
	return lm.metrics.Handler()
}

// GetCurrentStatus returns current system status (Interface implementation)
func (lm *LifecycleManager) GetCurrentStatus() interfaces.SystemStatus {
	lm.stateMu.RLock()
	state := lm.currentState
	lm.stateMu.RUnlock()

	g := lm.mdib.Version()
	status := interfaces.SystemStatus{
		State:             state.String(),
		SequenceID:        g.SequenceID,
		MdibVersion:       g.MdibVersion,
		DescriptorCount:   lm.mdib.Len(),
		ReportSubscribers: lm.streamer.Len(),
		ArchiveEnabled:    lm.recorder != nil,
		Simulating:        lm.simulator != nil && lm.simulator.IsRunning(),
	}
	if lm.profile != nil {
		status.Profile = lm.profile.Info.ID
	}
	if lm.recorder != nil {
		status.ArchiveDropped = lm.recorder.Dropped()
	}
	return status
}

func (lm *LifecycleManager) broadcastStatus(previous SystemState) {
	lm.stateMu.RLock()
	status := SystemStatus{
		State:     lm.currentState,
		Previous:  previous,
		Timestamp: time.Now().Unix(),
	}
	if lm.lastError != nil {
		status.Error = lm.lastError.Error()
	}
	lm.stateMu.RUnlock()

	lm.wsHub.Broadcast(websocket.NewSystemStateMessage(status.State.String(), previous.String()))

	lm.listenersMu.RLock()
	defer lm.listenersMu.RUnlock()

	for _, listener := range lm.statusListeners {
		select {
		case listener <- status:
		default:
			// Channel full, skip
		}
	}
}

// SubscribeStatus subscribes to status updates
func (lm *LifecycleManager) SubscribeStatus() chan SystemStatus {
	ch := make(chan SystemStatus, 10)

	lm.listenersMu.Lock()
	lm.statusListeners = append(lm.statusListeners, ch)
	lm.listenersMu.Unlock()

	return ch
}

// UnsubscribeStatus unsubscribes from status updates
func (lm *LifecycleManager) UnsubscribeStatus(ch chan SystemStatus) {
	lm.listenersMu.Lock()
	defer lm.listenersMu.Unlock()

	for i, listener := range lm.statusListeners {
		if listener == ch {
			lm.statusListeners = append(lm.statusListeners[:i], lm.statusListeners[i+1:]...)
			close(ch)
			break
		}
	}
}

// GRPCAddr is the bound gRPC listener address, nil before Start.
func (lm *LifecycleManager) GRPCAddr() net.Addr {
	return lm.grpcAddr
}

// Config returns the configuration
func (lm *LifecycleManager) Config() *config.Config {
	return lm.config
}

func (lm *LifecycleManager) Mdib() *mdib.Mdib {
	return lm.mdib
}

func (lm *LifecycleManager) Profile() *profile.Profile {
	return lm.profile
}

// Archive returns nil when archiving is disabled.
func (lm *LifecycleManager) Archive() archive.Store {
	if lm.storage == nil {
		return nil
	}
	return lm.storage
}
