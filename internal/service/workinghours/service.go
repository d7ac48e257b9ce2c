package workinghours

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	workingHoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/workinghours"
	"github.com/m04kA/SMC-SchedulingService/internal/service/workinghours/models"
)

// Service сервис рабочего времени провайдеров
type Service struct {
	repo      WorkingHoursRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса рабочего времени
func NewService(repo WorkingHoursRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// Get возвращает расписание провайдера
func (s *Service) Get(ctx context.Context, kind, providerID string) (*models.WorkingHoursResponse, error) {
	provider, err := parseProvider(kind, providerID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.repo.GetByProvider(ctx, provider)
	if err != nil {
		if errors.Is(err, workingHoursRepo.ErrWorkingHoursNotFound) {
			s.logger.Warn("Get: working hours for provider=%s not found", provider.Key())
			return nil, ErrWorkingHoursNotFound
		}
		s.logger.Error("Get: repository error for provider=%s: %v", provider.Key(), err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(schedule), nil
}

// Replace заменяет расписание провайдера. Пустой список дней удаляет расписание.
func (s *Service) Replace(ctx context.Context, kind, providerID string, req *models.ReplaceWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	provider, err := parseProvider(kind, providerID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Replace: replacing working hours for provider=%s, days=%d", provider.Key(), len(req.Days))

	schedule, err := req.ToDomainSchedule(provider)
	if err != nil {
		s.logger.Warn("Replace: invalid request for provider=%s: %v", provider.Key(), err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := schedule.Validate(); err != nil {
		s.logger.Warn("Replace: invalid schedule for provider=%s: %v", provider.Key(), err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.repo.Replace(txCtx, schedule)
	})
	if err != nil {
		s.logger.Error("Replace: repository error for provider=%s: %v", provider.Key(), err)
		return nil, fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Replace: successfully replaced working hours for provider=%s", provider.Key())
	return models.FromDomainSchedule(schedule), nil
}

// Delete удаляет расписание провайдера; после этого провайдер доступен весь день сетки
func (s *Service) Delete(ctx context.Context, kind, providerID string) error {
	provider, err := parseProvider(kind, providerID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByProvider(ctx, provider); err != nil {
		s.logger.Error("Delete: repository error for provider=%s: %v", provider.Key(), err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: removed working hours for provider=%s", provider.Key())
	return nil
}

func parseProvider(kind, providerID string) (domain.Provider, error) {
	providerKind, err := domain.ParseProviderKind(kind)
	if err != nil {
		return domain.Provider{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(providerID) == "" {
		return domain.Provider{}, fmt.Errorf("%w: providerId is required", ErrInvalidInput)
	}
	return domain.Provider{Kind: providerKind, ID: strings.TrimSpace(providerID)}, nil
}
