package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// ServiceManagerConfig holds the dependencies the services share.
type ServiceManagerConfig struct {
	TimezoneOffsetSeconds int
	DefaultTimeout        time.Duration
}

// serviceManager implements ServiceManager.
type serviceManager struct {
	repo         repositories.Repository
	cacheManager *cache.CacheManager
	logger       utils.Logger
	validator    *validator.Validator
	publisher    events.EventPublisher
	config       ServiceManagerConfig

	takeExamService TakeExamService
	gradingService  GradingService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(
	repo repositories.Repository,
	cacheManager *cache.CacheManager,
	logger utils.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
	config ServiceManagerConfig,
) ServiceManager {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 30 * time.Second
	}

	return &serviceManager{
		repo:         repo,
		cacheManager: cacheManager,
		logger:       logger,
		validator:    v,
		publisher:    publisher,
		config:       config,
	}
}

// Initialize constructs all services.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	timeConverter := NewTimeConverter(sm.config.TimezoneOffsetSeconds)

	sm.takeExamService = NewTakeExamService(sm.repo, sm.cacheManager, sm.logger, sm.validator, timeConverter, sm.publisher)
	sm.logger.Info("TakeExam service initialized")

	sm.gradingService = NewGradingService(sm.repo, sm.logger, sm.validator, sm.publisher)
	sm.logger.Info("Grading service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) TakeExam() TakeExamService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.takeExamService == nil {
		panic("take exam service not initialized")
	}

	return sm.takeExamService
}

func (sm *serviceManager) Grading() GradingService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.gradingService == nil {
		panic("grading service not initialized")
	}

	return sm.gradingService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
