package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type teamService struct {
	userRepository store.UserRepository

	logger *logger.Logger
}

func NewTeamService(userRepository store.UserRepository, logger *logger.Logger) TeamService {
	return &teamService{
		userRepository: userRepository,
		logger:         logger,
	}
}

// Snapshot recomputes the counters from the store on every call. Employees
// come in store order; all four counters are always present.
func (s *teamService) Snapshot(ctx context.Context) ([]models.TeamMemberSummary, error) {
	employees, err := s.userRepository.ListUsersByRole(ctx, models.RoleEmployee)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "teamService.Snapshot").Msg("failed to list employees")
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	team := make([]models.TeamMemberSummary, 0, len(employees))
	for _, employee := range employees {
		team = append(team, summarize(employee))
	}

	return team, nil
}

func summarize(employee models.User) models.TeamMemberSummary {
	counts := models.CountTasksByStatus(employee.Tasks)
	return models.TeamMemberSummary{
		UserID:    employee.ID,
		Name:      employee.DisplayName(),
		Email:     employee.Email,
		NewTask:   counts[models.StatusNew],
		Active:    counts[models.StatusActive],
		Completed: counts[models.StatusCompleted],
		Failed:    counts[models.StatusFailed],
		Total:     len(employee.Tasks),
	}
}
