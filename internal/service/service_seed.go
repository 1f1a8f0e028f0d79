package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

type seedTask struct {
	title       string
	description string
	status      models.TaskStatus
	dueDate     string
}

type seedAccount struct {
	name  string
	email string
	role  models.Role
	tasks []seedTask
}

var seedAccounts = []seedAccount{
	{name: "Admin", email: "admin@example.com", role: models.RoleAdmin},
	{name: "Employee 1", email: "e1@example.com", role: models.RoleEmployee, tasks: []seedTask{
		{"Design login page", "Create responsive login UI for employees", models.StatusActive, "2025-06-20"},
		{"Fix navbar issue", "Navbar not responsive on mobile", models.StatusNew, "2025-06-21"},
		{"Push code to GitHub", "Upload all project files", models.StatusCompleted, "2025-06-19"},
	}},
	{name: "Employee 2", email: "e2@example.com", role: models.RoleEmployee, tasks: []seedTask{
		{"Write documentation", "Explain API usage and routes", models.StatusNew, "2025-06-22"},
		{"Create project README", "Add instructions, images, and badges", models.StatusCompleted, "2025-06-18"},
		{"Update user flow diagram", "Reflect latest features", models.StatusFailed, "2025-06-20"},
		{"Clean up CSS", "Remove unused classes", models.StatusActive, "2025-06-23"},
	}},
	{name: "Employee 3", email: "e3@example.com", role: models.RoleEmployee, tasks: []seedTask{
		{"Optimize queries", "Improve DB read speed", models.StatusCompleted, "2025-06-19"},
		{"Integrate payment gateway", "Setup Stripe API integration", models.StatusActive, "2025-06-24"},
		{"Fix deployment error", "Resolve Vercel build issue", models.StatusFailed, "2025-06-20"},
	}},
	{name: "Employee 4", email: "e4@example.com", role: models.RoleEmployee, tasks: []seedTask{
		{"Create dark mode", "Add toggle and styling", models.StatusNew, "2025-06-24"},
		{"Fix mobile menu", "Hamburger not opening", models.StatusActive, "2025-06-23"},
		{"Add animations", "Use Framer Motion for transitions", models.StatusCompleted, "2025-06-18"},
		{"Check responsiveness", "Test layout on various screens", models.StatusCompleted, "2025-06-22"},
		{"Refactor code", "Break components properly", models.StatusFailed, "2025-06-20"},
	}},
	{name: "Employee 5", email: "e5@example.com", role: models.RoleEmployee, tasks: []seedTask{
		{"Create admin dashboard", "Stats, task table, filters", models.StatusNew, "2025-06-24"},
		{"Secure login", "Add input validation and localStorage protection", models.StatusActive, "2025-06-23"},
		{"Test forms", "Test Formspree integration", models.StatusCompleted, "2025-06-21"},
		{"Bug: task assign issue", "Fix assign-to-employee dropdown", models.StatusFailed, "2025-06-20"},
	}},
}

type seedService struct {
	seedRepository store.SeedRepository

	idGenerator      utils.IDGenerator
	now              func() time.Time
	passwordHashCost int

	logger *logger.Logger
}

func NewSeedService(seedRepository store.SeedRepository, passwordHashCost int, logger *logger.Logger) SeedService {
	return &seedService{
		seedRepository:   seedRepository,
		idGenerator:      utils.NewUUIDGenerator(),
		now:              func() time.Time { return time.Now().UTC() },
		passwordHashCost: passwordHashCost,
		logger:           logger,
	}
}

// Seed wipes the store and inserts one admin and five employees with their
// sample tasks. The password is hashed once and shared by all accounts.
func (s *seedService) Seed(ctx context.Context, password, secretKey string) ([]models.User, error) {
	log := logger.FromContext(ctx)

	passwordHash, err := utils.HashPassword(password, s.passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPasswordHashingFailed, err)
	}

	now := s.now()
	users := make([]models.User, 0, len(seedAccounts))
	for i, account := range seedAccounts {
		// distinct timestamps keep the creation order stable in every backend
		createdAt := now.Add(time.Duration(i) * time.Millisecond)

		tasks := make([]models.Task, 0, len(account.tasks))
		for j, t := range account.tasks {
			due, _ := time.Parse(time.DateOnly, t.dueDate)
			taskTime := createdAt.Add(time.Duration(j) * time.Microsecond)
			tasks = append(tasks, models.Task{
				ID:          s.idGenerator.Generate(),
				Title:       t.title,
				Description: t.description,
				Status:      t.status,
				DueDate:     &due,
				CreatedAt:   taskTime,
				UpdatedAt:   taskTime,
			})
		}

		users = append(users, models.User{
			ID:           s.idGenerator.Generate(),
			Name:         account.name,
			Email:        account.email,
			PasswordHash: passwordHash,
			Role:         account.role,
			SecretKey:    secretKey,
			Tasks:        tasks,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		})
	}

	if err = s.seedRepository.ResetUsers(ctx, users); err != nil {
		log.Err(err).Str("func", "seedService.Seed").Msg("failed to seed store")
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	return users, nil
}
