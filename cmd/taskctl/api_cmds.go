package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-keeper/models"
)

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health, version and store state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api, err := c.serverAdapter()
			if err != nil {
				return err
			}

			health, err := api.Health(ctx)
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}
			version, err := api.Version(ctx)
			if err != nil {
				return fmt.Errorf("version: %w", err)
			}
			status, err := api.StoreStatus(ctx)
			if err != nil {
				return fmt.Errorf("store status: %w", err)
			}

			fmt.Fprintf(c.out, "health: %s\n", health.Status)
			fmt.Fprintf(c.out, "version: %s\n", version)
			fmt.Fprintf(c.out, "has users: %t\n", status.HasUsers)
			return nil
		},
	}
}

func (c *cli) loginCmd() *cobra.Command {
	var request models.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token for --token / ADAPTER_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := c.serverAdapter()
			if err != nil {
				return err
			}

			resp, err := api.Login(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			fmt.Fprintf(c.out, "logged in as %s (%s)\n", resp.User.Email, resp.User.Role)
			fmt.Fprintln(c.out, resp.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&request.Email, "email", "", "account email")
	cmd.Flags().StringVar(&request.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (c *cli) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, create and update tasks",
	}
	cmd.AddCommand(c.tasksListCmd(), c.tasksCreateCmd(), c.tasksStatusCmd())
	return cmd
}

func (c *cli) tasksListCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks, or another user's tasks as an admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := c.serverAdapter()
			if err != nil {
				return err
			}

			resp, err := api.ListTasks(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}

			fmt.Fprintf(c.out, "owner: %s <%s>\n", resp.Owner.Name, resp.Owner.Email)
			w := c.table()
			printTasks(w, resp.Tasks)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "id of the user whose tasks to list (admin only)")

	return cmd
}

func (c *cli) tasksCreateCmd() *cobra.Command {
	var (
		request models.CreateTaskRequest
		status  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Assign a new task to an employee (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := c.serverAdapter()
			if err != nil {
				return err
			}

			request.Status = models.TaskStatus(status)
			task, err := api.CreateTask(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}

			fmt.Fprintf(c.out, "task %s created with status %s\n", task.ID, task.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&request.EmployeeID, "employee", "", "id of the assignee")
	cmd.Flags().StringVar(&request.Title, "title", "", "task title")
	cmd.Flags().StringVar(&request.Description, "description", "", "task description")
	cmd.Flags().StringVar(&request.DueDate, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default new)")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func (c *cli) tasksStatusCmd() *cobra.Command {
	var employeeID string

	cmd := &cobra.Command{
		Use:   "status <taskId> <status>",
		Short: "Change the status of a task",
		Long: `Change the status of a task. Valid statuses are new, active,
completed and failed. Admins pass --employee to address another user's task.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.serverAdapter()
			if err != nil {
				return err
			}

			task, err := api.UpdateTaskStatus(cmd.Context(), args[0], models.UpdateTaskStatusRequest{
				Status:     models.TaskStatus(args[1]),
				EmployeeID: employeeID,
			})
			if err != nil {
				return fmt.Errorf("update task status: %w", err)
			}

			fmt.Fprintf(c.out, "task %s is now %s\n", task.ID, task.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&employeeID, "employee", "", "owner of the task (admin only)")

	return cmd
}

func (c *cli) teamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "team",
		Short: "Show per-employee task counters (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := c.serverAdapter()
			if err != nil {
				return err
			}

			team, err := api.TeamSnapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("team snapshot: %w", err)
			}

			w := c.table()
			fmt.Fprintln(w, "NAME\tEMAIL\tNEW\tACTIVE\tCOMPLETED\tFAILED\tTOTAL")
			for _, m := range team {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					m.Name, m.Email, m.NewTask, m.Active, m.Completed, m.Failed, m.Total)
			}
			return w.Flush()
		},
	}
}
