package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/domain"
	"github.com/runoshun/taskq/internal/usecase"
	"github.com/spf13/cobra"
)

// statusValue is a pflag.Value that only accepts valid task statuses,
// so invalid enum values surface as flag (usage) errors.
type statusValue struct {
	status *domain.Status
}

func (v *statusValue) String() string { return string(*v.status) }

func (v *statusValue) Set(s string) error {
	st, err := domain.ParseStatus(s)
	if err != nil {
		return err
	}
	*v.status = st
	return nil
}

func (v *statusValue) Type() string { return "status" }

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title         string
		MarkdownFile  string
		FromFile      string
		BlockedBy     []string
		MarkdownStdin bool
		JSON          bool
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new task",
		Long: `Add a new task to the queue.

The task is created with status 'ready'. Blockers reference existing
tasks by id ("T0001") or bare sequence number ("1"); a task with
blockers stays unclaimable until every blocker is done.

Examples:
  # Add a task
  taskq add --title "Refactor auth"

  # Add a task blocked by two existing tasks
  taskq add --title "Wire the API" --blocked-by T0001 --blocked-by 2

  # Add a task with a markdown body from a file
  taskq add --title "Design schema" --markdown-file notes.md

  # Add a task with a body from stdin
  cat notes.md | taskq add --title "Design schema" --markdown-stdin

  # Add several tasks from a draft file
  taskq add --from-file backlog.md

File format for --from-file:
  ---
  title: Task 1
  ---
  Body here.

  ---
  title: Task 2
  blocked_by: [1]      # Relative: Task 1 in this file
  ---

  ---
  title: Task 3
  blocked_by: [T0042]  # Absolute: existing task T0042
  ---`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.FromFile != "" {
				return addTasksFromFile(cmd, c, opts.FromFile, opts.JSON)
			}

			if opts.Title == "" {
				return usageErrorf("required flag(s) \"title\" not set")
			}

			body, err := readBodyInput(cmd, opts.MarkdownFile, opts.MarkdownStdin)
			if err != nil {
				return err
			}

			uc := c.AddTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.AddTaskInput{
				Title:     opts.Title,
				Body:      body,
				BlockedBy: opts.BlockedBy,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Task)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	// Flags (--title is conditionally required based on --from-file)
	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required unless --from-file is used)")
	cmd.Flags().StringVar(&opts.MarkdownFile, "markdown-file", "", "Read the task body from a file")
	cmd.Flags().BoolVar(&opts.MarkdownStdin, "markdown-stdin", false, "Read the task body from stdin")
	cmd.Flags().StringArrayVar(&opts.BlockedBy, "blocked-by", nil, "Blocker task reference (can specify multiple)")
	cmd.Flags().StringVar(&opts.FromFile, "from-file", "", "Create tasks from a draft file")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// readBodyInput resolves the task body from --markdown-file or
// --markdown-stdin.
func readBodyInput(cmd *cobra.Command, file string, stdin bool) (string, error) {
	if file != "" && stdin {
		return "", usageErrorf("--markdown-file and --markdown-stdin are mutually exclusive")
	}
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read markdown file: %w", err)
		}
		return string(content), nil
	}
	if stdin {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(content), nil
	}
	return "", nil
}

// addTasksFromFile creates tasks from a draft file.
func addTasksFromFile(cmd *cobra.Command, c *app.Container, filePath string, asJSON bool) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	uc := c.AddTasksFromFileUseCase()
	out, err := uc.Execute(cmd.Context(), usecase.AddTasksFromFileInput{
		Content: string(content),
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return printJSON(w, out.Tasks)
	}

	for _, task := range out.Tasks {
		_, _ = fmt.Fprintf(w, "Created task %s: %s\n", task.ID, task.Title)
	}
	_, _ = fmt.Fprintf(w, "\nCreated %d task(s)\n", len(out.Tasks))
	return nil
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status domain.Status
		All    bool
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display tasks in creation order.

By default, done tasks are hidden. Use --all to include them, or
--status to show exactly one stored status.

Output format is tab-separated with columns:
  ID, STATUS, BLOCKED BY, CLAIMED BY, TITLE

STATUS shows the remaining lease time for claimed tasks.

Examples:
  # List open tasks (default: exclude done)
  taskq list

  # List all tasks including done
  taskq list --all
  taskq list -a

  # List only in_progress tasks
  taskq list --status in_progress

  # Output in JSON format
  taskq list --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{
				Status: opts.Status,
			})
			if err != nil {
				return err
			}

			tasks := out.Tasks
			if !opts.All && opts.Status == "" {
				open := make([]*domain.Task, 0, len(tasks))
				for _, t := range tasks {
					if !t.Status.IsTerminal() {
						open = append(open, t)
					}
				}
				tasks = open
			}

			if opts.JSON {
				if tasks == nil {
					tasks = []*domain.Task{}
				}
				return printJSON(cmd.OutOrStdout(), tasks)
			}
			printTaskList(cmd.OutOrStdout(), tasks, out.Now)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Show all tasks including done")
	cmd.Flags().Var(&statusValue{status: &opts.Status}, "status", "Show only tasks with this status (ready, in_progress, done)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// newReadyCommand creates the ready command for listing claimable tasks.
func newReadyCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List claimable tasks",
		Long: `Display the tasks a worker could claim right now, in creation order.

A task is claimable when every blocker is done and it is not held
under a live lease. Tasks whose lease has expired count as claimable
again. This is a read-only view; it does not reclaim anything.

Examples:
  # Show the claimable queue
  taskq ready

  # Output in JSON format
  taskq ready --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ReadyTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ReadyTasksInput{})
			if err != nil {
				return err
			}

			if opts.JSON {
				tasks := out.Tasks
				if tasks == nil {
					tasks = []*domain.Task{}
				}
				return printJSON(cmd.OutOrStdout(), tasks)
			}
			printTaskList(cmd.OutOrStdout(), out.Tasks, out.Now)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []*domain.Task, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tBLOCKED BY\tCLAIMED BY\tTITLE")

	// Rows
	for _, task := range tasks {
		blockedStr := "-"
		if len(task.BlockedBy) > 0 {
			blockedStr = strings.Join(task.BlockedBy, ",")
		}

		claimedStr := "-"
		if task.ClaimedBy != "" {
			claimedStr = task.ClaimedBy
		}

		// Format status with lease state for claimed tasks
		statusStr := string(task.Status)
		if task.Status == domain.StatusInProgress && task.LeaseExpiresAt != nil {
			if task.LeaseExpired(now) {
				statusStr = fmt.Sprintf("%s (lease expired)", task.Status)
			} else {
				statusStr = fmt.Sprintf("%s (%s left)", task.Status, formatDuration(task.LeaseExpiresAt.Sub(now)))
			}
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			statusStr,
			blockedStr,
			claimedStr,
			task.Title,
		)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// printJSON encodes v to w with two-space indentation.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newGetCommand creates the get command for displaying task details.
func newGetCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
		Body bool
	}

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task.

The id may be the canonical form ("T0012") or a bare sequence number
("12").

Examples:
  # Show task details
  taskq get T0001
  taskq get 1

  # Output the stored document in JSON format
  taskq get 1 --json

  # Print only the markdown body
  taskq get 1 --body`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.JSON && opts.Body {
				return usageErrorf("--json and --body are mutually exclusive")
			}

			uc := c.GetTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.GetTaskInput{
				ID:       args[0],
				WithBody: true,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case opts.JSON:
				doc := struct {
					*domain.Task
					Body string `json:"body,omitempty"`
				}{Task: out.Task, Body: out.Body}
				return printJSON(w, doc)
			case opts.Body:
				_, _ = fmt.Fprint(w, out.Body)
				return nil
			default:
				printTaskDetails(w, out.Task, out.Body, out.Now)
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.Body, "body", false, "Print only the markdown body")

	return cmd
}

// printTaskDetails prints one task in a formatted output.
func printTaskDetails(w io.Writer, task *domain.Task, body string, now time.Time) {
	// Header
	_, _ = fmt.Fprintf(w, "# %s: %s\n\n", task.ID, task.Title)

	// Fields
	_, _ = fmt.Fprintf(w, "Status: %s\n", task.Status)

	if len(task.BlockedBy) > 0 {
		_, _ = fmt.Fprintf(w, "Blocked by: %s\n", strings.Join(task.BlockedBy, ", "))
	} else {
		_, _ = fmt.Fprintln(w, "Blocked by: none")
	}

	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Updated: %s\n", task.UpdatedAt.Format(time.RFC3339))

	if task.HasClaim() {
		_, _ = fmt.Fprintf(w, "Claimed by: %s (since %s)\n", task.ClaimedBy, task.ClaimedAt.Format(time.RFC3339))
		if task.LeaseExpired(now) {
			_, _ = fmt.Fprintf(w, "Lease: expired %s ago\n", formatDuration(now.Sub(*task.LeaseExpiresAt)))
		} else {
			_, _ = fmt.Fprintf(w, "Lease: %s remaining\n", formatDuration(task.LeaseExpiresAt.Sub(now)))
		}
	}

	if body != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", strings.TrimRight(body, "\n"))
	}
}

// newUpdateCommand creates the update command for editing tasks.
func newUpdateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		AddBlocker    string
		RemoveBlocker string
		Status        domain.Status
		MarkdownFile  string
		MarkdownStdin bool
		Edit          bool
	}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Long: `Update one field of an existing task.

Exactly one change is applied per invocation: a blocker edit, a status
edit, or a body edit.

Setting --status in_progress on a task without a live claim grants a
default lease (claimant and duration from config). Any other --status
target clears the claim fields. Titles are immutable.

Examples:
  # Add a blocker edge
  taskq update 3 --add-blocker T0001

  # Remove a blocker edge
  taskq update 3 --remove-blocker 1

  # Force a status
  taskq update 3 --status done

  # Replace the body from a file
  taskq update 3 --markdown-file notes.md

  # Replace the body from stdin
  cat notes.md | taskq update 3 --markdown-stdin

  # Edit the body in $EDITOR
  taskq update 3 --edit`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bodySources := 0
			if opts.MarkdownFile != "" {
				bodySources++
			}
			if opts.MarkdownStdin {
				bodySources++
			}
			if opts.Edit {
				bodySources++
			}
			if bodySources > 1 {
				return usageErrorf("--markdown-file, --markdown-stdin, and --edit are mutually exclusive")
			}

			changes := bodySources
			if opts.AddBlocker != "" {
				changes++
			}
			if opts.RemoveBlocker != "" {
				changes++
			}
			if cmd.Flags().Changed("status") {
				changes++
			}
			if changes > 1 {
				return usageErrorf("update applies one change per invocation")
			}

			input := usecase.UpdateTaskInput{
				ID:            args[0],
				AddBlocker:    opts.AddBlocker,
				RemoveBlocker: opts.RemoveBlocker,
				Status:        string(opts.Status),
			}

			switch {
			case opts.Edit:
				body, err := editBodyWithEditor(cmd, c, args[0])
				if err != nil {
					return err
				}
				if body == nil {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
					return nil
				}
				input.Body = body
			case opts.MarkdownFile != "" || opts.MarkdownStdin:
				body, err := readBodyInput(cmd, opts.MarkdownFile, opts.MarkdownStdin)
				if err != nil {
					return err
				}
				input.Body = &body
			}

			uc := c.UpdateTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.AddBlocker, "add-blocker", "", "Blocker reference to add")
	cmd.Flags().StringVar(&opts.RemoveBlocker, "remove-blocker", "", "Blocker reference to remove")
	cmd.Flags().Var(&statusValue{status: &opts.Status}, "status", "New status (ready, in_progress, done)")
	cmd.Flags().StringVar(&opts.MarkdownFile, "markdown-file", "", "Replace the task body from a file")
	cmd.Flags().BoolVar(&opts.MarkdownStdin, "markdown-stdin", false, "Replace the task body from stdin")
	cmd.Flags().BoolVar(&opts.Edit, "edit", false, "Edit the task body in $EDITOR")

	return cmd
}

// editBodyWithEditor opens the task body in an editor and returns the
// edited body, or nil when nothing changed.
func editBodyWithEditor(cmd *cobra.Command, c *app.Container, ref string) (*string, error) {
	uc := c.GetTaskUseCase()
	out, err := uc.Execute(cmd.Context(), usecase.GetTaskInput{ID: ref, WithBody: true})
	if err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp("", fmt.Sprintf("taskq-%s-*.md", out.Task.ID))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, writeErr := tmpFile.WriteString(out.Body); writeErr != nil {
		_ = tmpFile.Close()
		return nil, fmt.Errorf("write temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return nil, fmt.Errorf("close temp file: %w", closeErr)
	}

	if editorErr := openEditor(tmpPath); editorErr != nil {
		return nil, editorErr
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	if string(edited) == out.Body {
		return nil, nil
	}
	body := string(edited)
	return &body, nil
}
