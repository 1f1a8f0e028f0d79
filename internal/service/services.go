package service

import (
	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
)

type Services struct {
	AuthService    AuthService
	TaskService    TaskService
	TeamService    TeamService
	SeedService    SeedService
	HealthService  HealthService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	taskService := NewTaskValidationService().Wrap(
		NewTaskService(storages.UserRepository, storages.TaskRepository, logger),
	)

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, cfg.App, logger),
		TaskService:    taskService,
		TeamService:    NewTeamService(storages.UserRepository, logger),
		SeedService:    NewSeedService(storages.SeedRepository, cfg.App.PasswordHashCost, logger),
		HealthService:  NewHealthService(storages.HealthChecker, logger),
		AppInfoService: appInfoService,
	}, nil
}
