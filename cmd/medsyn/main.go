package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medsyn/console/internal/config"
	"github.com/medsyn/console/internal/domain/auth"
	"github.com/medsyn/console/internal/domain/bot"
	"github.com/medsyn/console/internal/domain/dietplan"
	"github.com/medsyn/console/internal/domain/healthevent"
	"github.com/medsyn/console/internal/domain/medication"
	"github.com/medsyn/console/internal/domain/patient"
	"github.com/medsyn/console/internal/domain/report"
	"github.com/medsyn/console/internal/domain/staff"
	"github.com/medsyn/console/internal/domain/summary"
	"github.com/medsyn/console/internal/domain/therapy"
	"github.com/medsyn/console/internal/platform/gateway"
	"github.com/medsyn/console/internal/platform/sandbox"
	"github.com/medsyn/console/internal/platform/session"
	"github.com/medsyn/console/internal/platform/term"
	"github.com/medsyn/console/pkg/pagination"
)

// app wires the config, session, gateway and feature services for the
// command tree.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	printer *term.Printer
	session *session.Session
	client  *gateway.Client

	auth        *auth.Service
	patients    *patient.Service
	staff       *staff.Service
	events      *healthevent.Service
	medications *medication.Service
	reports     *report.Service
	therapy     *therapy.Service
	diet        *dietplan.Service
	summaries   *summary.Service
	bot         *bot.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger = logger.Level(level)

	store, err := session.NewFileStore(cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	sess := session.New(store, cfg.StorageKeys())

	printer := term.NewPrinter(os.Stdout)
	client := gateway.New(gateway.Options{
		APIURL:      cfg.APIURL,
		LoginAPIURL: cfg.LoginAPIURL,
		BotAPIURL:   cfg.BotAPIURL,
		HospitalID:  cfg.HospitalID,
		Timeout:     cfg.Timeout(),
		Tokens:      sess,
		Logger:      logger,
		OnUnauthorized: func() {
			printer.Warn("session expired, signing out")
			_ = sess.Clear()
		},
		OnForbidden: func() {
			printer.Warn("not permitted for this account, returning to the dashboard")
		},
	})

	a := &app{
		cfg:         cfg,
		log:         logger,
		printer:     printer,
		session:     sess,
		client:      client,
		patients:    patient.NewService(client),
		staff:       staff.NewService(client),
		events:      healthevent.NewService(client),
		medications: medication.NewService(client),
		reports:     report.NewService(client),
		therapy:     therapy.NewService(client),
		diet:        dietplan.NewService(client),
		summaries:   summary.NewService(client),
		bot:         bot.NewService(client),
	}
	a.auth = auth.NewService(client, sess, logger)
	return a, nil
}

// requireAuth is the route-guard counterpart: commands that talk to the
// backend refuse to run signed out.
func (a *app) requireAuth() error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not signed in; run: medsyn login")
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "medsyn",
		Short:         "MedSyn hospital management console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(
		a.loginCmd(), a.logoutCmd(), a.whoamiCmd(),
		a.patientsCmd(), a.staffCmd(), a.eventsCmd(),
		a.medsCmd(), a.reportsCmd(), a.therapyCmd(),
		a.dietCmd(), a.summaryCmd(), a.chatCmd(),
		sandboxCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		a.printer.Error("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Auth commands
// ---------------------------------------------------------------------------

func (a *app) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				fmt.Fprint(cmd.OutOrStdout(), "email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}

			ctx, cancel := signalContext()
			defer cancel()
			user, err := a.auth.Login(ctx, auth.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}
			a.printer.Success("signed in as %s (%s)", user.FullName(), user.Role)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Logout(); err != nil {
				return err
			}
			a.printer.Success("signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			user, err := a.auth.CurrentUser()
			if err != nil {
				return err
			}
			a.printer.Table(
				[]string{"NAME", "EMAIL", "ROLE"},
				[][]string{{user.FullName(), user.Email, user.Role}},
			)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// Patient and staff commands
// ---------------------------------------------------------------------------

func pageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("limit", pagination.DefaultLimit, "Records per page")
}

func pageParams(cmd *cobra.Command) pagination.Params {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	return pagination.Normalize(page, limit)
}

func (a *app) patientsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "patients", Short: "Patient roster"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			search, _ := cmd.Flags().GetString("search")
			params := pageParams(cmd)

			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.patients.List(ctx, params, search)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(data.Patients))
			for _, p := range data.Patients {
				rows = append(rows, []string{p.HealthID, p.FullName(), p.Gender, p.AdmissionStatus})
			}
			a.printer.Table([]string{"HEALTH ID", "NAME", "GENDER", "STATUS"}, rows)
			a.printer.PageFooter(params, data.TotalCount)
			return nil
		},
	}
	pageFlags(listCmd)
	listCmd.Flags().String("search", "", "Filter by name or health ID")

	showCmd := &cobra.Command{
		Use:   "show <patientId>",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			p, err := a.patients.Get(ctx, args[0])
			if err != nil {
				return err
			}
			a.printer.Table(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"Health ID", p.HealthID},
					{"Name", p.FullName()},
					{"Gender", p.Gender},
					{"Phone", p.Phone},
					{"Admission", p.AdmissionStatus},
				},
			)
			return nil
		},
	}

	onboardCmd := &cobra.Command{
		Use:   "onboard",
		Short: "Admit a new patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			form := patient.OnboardForm{}
			form.FirstName, _ = cmd.Flags().GetString("first-name")
			form.LastName, _ = cmd.Flags().GetString("last-name")
			form.DateOfBirth, _ = cmd.Flags().GetString("dob")
			form.Gender, _ = cmd.Flags().GetString("gender")
			form.Phone, _ = cmd.Flags().GetString("phone")
			form.Email, _ = cmd.Flags().GetString("email")

			ctx, cancel := signalContext()
			defer cancel()
			created, err := a.patients.Onboard(ctx, form)
			if err != nil {
				return err
			}
			a.printer.Success("admitted %s with health ID %s", created.FullName(), created.HealthID)
			return nil
		},
	}
	onboardCmd.Flags().String("first-name", "", "First name")
	onboardCmd.Flags().String("last-name", "", "Last name")
	onboardCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	onboardCmd.Flags().String("gender", "", "male, female or other")
	onboardCmd.Flags().String("phone", "", "Contact phone")
	onboardCmd.Flags().String("email", "", "Contact email")

	cmd.AddCommand(listCmd, showCmd, onboardCmd)
	return cmd
}

func (a *app) staffCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "staff", Short: "Staff roster"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List staff",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			params := pageParams(cmd)
			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.staff.List(ctx, params)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(data.Staff))
			for _, s := range data.Staff {
				rows = append(rows, []string{s.UserID, s.FullName(), s.Role, s.Email})
			}
			a.printer.Table([]string{"ID", "NAME", "ROLE", "EMAIL"}, rows)
			a.printer.PageFooter(params, data.TotalCount)
			return nil
		},
	}
	pageFlags(listCmd)

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			form := staff.RegisterForm{}
			form.FirstName, _ = cmd.Flags().GetString("first-name")
			form.LastName, _ = cmd.Flags().GetString("last-name")
			form.Email, _ = cmd.Flags().GetString("email")
			form.Password, _ = cmd.Flags().GetString("password")
			form.Role, _ = cmd.Flags().GetString("role")
			form.Specialization, _ = cmd.Flags().GetString("specialization")

			ctx, cancel := signalContext()
			defer cancel()
			created, err := a.staff.Register(ctx, form)
			if err != nil {
				return err
			}
			a.printer.Success("registered %s as %s", created.FullName(), created.Role)
			return nil
		},
	}
	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Initial password")
	registerCmd.Flags().String("role", "", "admin, doctor or nurse")
	registerCmd.Flags().String("specialization", "", "Specialization")

	cmd.AddCommand(listCmd, registerCmd)
	return cmd
}

// ---------------------------------------------------------------------------
// Health events, medications, reports
// ---------------------------------------------------------------------------

func (a *app) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "events", Short: "Patient health timeline"}

	listCmd := &cobra.Command{
		Use:   "list <healthId>",
		Short: "List health events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			params := pageParams(cmd)
			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.events.List(ctx, args[0], params)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(data.Events))
			for _, e := range data.Events {
				rows = append(rows, []string{e.EventID, e.Type, e.Status, e.Description})
			}
			a.printer.Table([]string{"ID", "TYPE", "STATUS", "DESCRIPTION"}, rows)
			a.printer.PageFooter(params, data.TotalCount)
			return nil
		},
	}
	pageFlags(listCmd)

	addCmd := &cobra.Command{
		Use:   "add <healthId>",
		Short: "Record a health event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			event := healthevent.Event{HealthID: args[0]}
			event.Type, _ = cmd.Flags().GetString("type")
			event.Status, _ = cmd.Flags().GetString("status")
			event.Description, _ = cmd.Flags().GetString("desc")

			ctx, cancel := signalContext()
			defer cancel()
			created, err := a.events.Add(ctx, event)
			if err != nil {
				return err
			}
			a.printer.Success("recorded %s event %s", created.Type, created.EventID)
			return nil
		},
	}
	addCmd.Flags().String("type", "", "Event type (surgery, scan, therapy, ...)")
	addCmd.Flags().String("status", "scheduled", "scheduled, completed or cancelled")
	addCmd.Flags().String("desc", "", "Description")

	deleteCmd := &cobra.Command{
		Use:   "delete <healthId> <eventId>",
		Short: "Delete a health event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			if err := a.events.Delete(ctx, args[0], args[1]); err != nil {
				return err
			}
			a.printer.Success("deleted event %s", args[1])
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, deleteCmd)
	return cmd
}

func (a *app) medsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "meds", Short: "Patient medications"}

	listCmd := &cobra.Command{
		Use:   "list <healthId>",
		Short: "List medications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			search, _ := cmd.Flags().GetString("search")
			params := pageParams(cmd)
			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.medications.List(ctx, args[0], params, search)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(data.Medications))
			for _, m := range data.Medications {
				rows = append(rows, []string{m.Name, m.Dosage, m.Frequency, m.Status, m.Source})
			}
			a.printer.Table([]string{"NAME", "DOSAGE", "FREQUENCY", "STATUS", "SOURCE"}, rows)
			a.printer.PageFooter(params, data.TotalCount)
			return nil
		},
	}
	pageFlags(listCmd)
	listCmd.Flags().String("search", "", "Filter by name")

	addCmd := &cobra.Command{
		Use:   "add <healthId>",
		Short: "Record a medication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			med := medication.Medication{HealthID: args[0]}
			med.Name, _ = cmd.Flags().GetString("name")
			med.Dosage, _ = cmd.Flags().GetString("dosage")
			med.Frequency, _ = cmd.Flags().GetString("frequency")
			med.Status, _ = cmd.Flags().GetString("status")

			ctx, cancel := signalContext()
			defer cancel()
			created, err := a.medications.Add(ctx, med)
			if err != nil {
				return err
			}
			a.printer.Success("recorded %s (%s)", created.Name, created.Dosage)
			return nil
		},
	}
	addCmd.Flags().String("name", "", "Medication name")
	addCmd.Flags().String("dosage", "", "Dosage, e.g. 500mg")
	addCmd.Flags().String("frequency", "", "Frequency, e.g. twice daily")
	addCmd.Flags().String("status", "active", "active, completed or discontinued")

	scanCmd := &cobra.Command{
		Use:   "scan <healthId> <file>",
		Short: "Extract medications from a scanned prescription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			content, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			spinner := term.NewSpinner(cmd.OutOrStdout(), "scanning prescription")
			spinner.Start()
			ctx, cancel := signalContext()
			defer cancel()
			result, err := a.medications.UploadScan(ctx, args[0], args[1], content)
			spinner.Stop()
			if err != nil {
				return err
			}
			a.printer.Success("extracted %d medication(s)", len(result.Medications))
			for _, m := range result.Medications {
				a.printer.Info("  %s %s %s", m.Name, m.Dosage, m.Frequency)
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, scanCmd)
	return cmd
}

func (a *app) reportsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reports", Short: "Patient documents"}

	listCmd := &cobra.Command{
		Use:   "list <healthId>",
		Short: "List reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			params := pageParams(cmd)
			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.reports.List(ctx, args[0], params)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(data.Reports))
			for _, r := range data.Reports {
				rows = append(rows, []string{r.ReportID, r.Name, r.Type, r.FileName})
			}
			a.printer.Table([]string{"ID", "NAME", "TYPE", "FILE"}, rows)
			a.printer.PageFooter(params, data.TotalCount)
			return nil
		},
	}
	pageFlags(listCmd)

	uploadCmd := &cobra.Command{
		Use:   "upload <healthId> <file>",
		Short: "Attach a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			docType, _ := cmd.Flags().GetString("type")
			content, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			created, err := a.reports.Upload(ctx, report.UploadForm{
				HealthID: args[0],
				Name:     name,
				Type:     docType,
				FileName: args[1],
				Content:  content,
			})
			if err != nil {
				return err
			}
			a.printer.Success("uploaded %s as report %s", created.Name, created.ReportID)
			return nil
		},
	}
	uploadCmd.Flags().String("name", "", "Report name")
	uploadCmd.Flags().String("type", "other", "lab, imaging, discharge, prescription or other")

	openCmd := &cobra.Command{
		Use:   "open <healthId> <reportId>",
		Short: "Fetch a document to the local viewer directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.reports.List(ctx, args[0], pagination.Normalize(1, pagination.MaxLimit))
			if err != nil {
				return err
			}
			for _, r := range data.Reports {
				if r.ReportID != args[1] {
					continue
				}
				content, err := a.reports.Download(ctx, r)
				if err != nil {
					return err
				}
				path, err := term.SaveDocument(a.cfg.SessionDir+"/documents", r.FileName, content)
				if err != nil {
					return err
				}
				a.printer.Success("saved to %s", path)
				return nil
			}
			return fmt.Errorf("report %s not found", args[1])
		},
	}

	cmd.AddCommand(listCmd, uploadCmd, openCmd)
	return cmd
}

// ---------------------------------------------------------------------------
// Therapy, diet, summary, chat
// ---------------------------------------------------------------------------

func (a *app) therapyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "therapy", Short: "Treatment planning"}

	goalsCmd := &cobra.Command{
		Use:   "goals <healthId>",
		Short: "List treatment goals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.therapy.Goals(ctx, args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(data.Goals))
			for _, g := range data.Goals {
				rows = append(rows, []string{g.Name, g.Type, g.Status.DisplayLabel(), g.TargetDate})
			}
			a.printer.Table([]string{"GOAL", "TYPE", "STATUS", "TARGET"}, rows)
			return nil
		},
	}

	planCmd := &cobra.Command{
		Use:   "plan <healthId>",
		Short: "Show the intervention schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.therapy.Interventions(ctx, args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(data.Interventions))
			for _, iv := range data.Interventions {
				rows = append(rows, []string{
					iv.Name,
					iv.Discipline.DisplayLabel(),
					fmt.Sprintf("wk %d +%d", iv.OnWeek, iv.DurationWeeks),
					iv.Status.DisplayLabel(),
					fmt.Sprintf("%d visits", len(iv.Visits)),
				})
			}
			a.printer.Table([]string{"INTERVENTION", "DISCIPLINE", "SCHEDULE", "STATUS", "VISITS"}, rows)

			for _, slot := range therapy.ScheduleOverview(data.Interventions) {
				names := make([]string, 0, len(slot.Interventions))
				for _, iv := range slot.Interventions {
					names = append(names, iv.Name)
				}
				a.printer.Info("week %d: %s", slot.Week, strings.Join(names, ", "))
			}
			return nil
		},
	}

	goalAddCmd := &cobra.Command{
		Use:   "goal-add <healthId>",
		Short: "Add a treatment goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			goalType, _ := cmd.Flags().GetString("type")
			statusRaw, _ := cmd.Flags().GetString("status")
			status, err := therapy.ParseStatus(statusRaw)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			created, err := a.therapy.SubmitGoal(ctx, therapy.Goal{
				HealthID: args[0],
				Name:     name,
				Type:     goalType,
				Status:   status,
			})
			if err != nil {
				return err
			}
			a.printer.Success("added goal %s (%s)", created.Name, created.Status.DisplayLabel())
			return nil
		},
	}
	goalAddCmd.Flags().String("name", "", "Goal name")
	goalAddCmd.Flags().String("type", "short-term", "short-term or long-term")
	goalAddCmd.Flags().String("status", "planned", "Goal status")

	visitCmd := &cobra.Command{
		Use:   "visit <healthId> <sessionId>",
		Short: "Log a therapy visit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			summaryText, _ := cmd.Flags().GetString("summary")
			ctx, cancel := signalContext()
			defer cancel()
			created, err := a.therapy.SubmitVisit(ctx, args[0], therapy.Visit{
				SessionID: args[1],
				Date:      date,
				Summary:   summaryText,
			})
			if err != nil {
				return err
			}
			a.printer.Success("logged visit %s on %s", created.VisitID, created.Date)
			return nil
		},
	}
	visitCmd.Flags().String("date", time.Now().Format("2006-01-02"), "Visit date (YYYY-MM-DD)")
	visitCmd.Flags().String("summary", "", "Visit summary")

	cmd.AddCommand(goalsCmd, planCmd, goalAddCmd, visitCmd)
	return cmd
}

func (a *app) dietCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "diet", Short: "Weekly diet plan"}

	renderWeek := func(week dietplan.Week) {
		rows := make([][]string, 0, len(week.Days))
		for _, day := range week.Days {
			rows = append(rows, []string{
				day.Name,
				strings.Join(day.Meals[dietplan.SlotBreakfast].Foods, ", "),
				strings.Join(day.Meals[dietplan.SlotLunch].Foods, ", "),
				strings.Join(day.Meals[dietplan.SlotSnack].Foods, ", "),
				strings.Join(day.Meals[dietplan.SlotDinner].Foods, ", "),
			})
		}
		a.printer.Table([]string{"DAY", "BREAKFAST", "LUNCH", "SNACK", "DINNER"}, rows)
	}

	showCmd := &cobra.Command{
		Use:   "show <healthId>",
		Short: "Show the active plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			week, err := a.diet.ActiveWeek(ctx, args[0])
			if err != nil {
				return err
			}
			renderWeek(week)
			return nil
		},
	}

	generateCmd := &cobra.Command{
		Use:   "generate <healthId>",
		Short: "Generate a fresh plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			spinner := term.NewSpinner(cmd.OutOrStdout(), "generating diet plan")
			spinner.Start()
			ctx, cancel := signalContext()
			defer cancel()
			plan, err := a.diet.Generate(ctx, args[0])
			spinner.Stop()
			if err != nil {
				return err
			}
			renderWeek(dietplan.MapWeek(plan.Entries))
			return nil
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history <healthId>",
		Short: "List retired plans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			data, err := a.diet.History(ctx, args[0])
			if err != nil {
				return err
			}
			if len(data.Plans) == 0 {
				a.printer.Info("no retired plans")
				return nil
			}
			for _, plan := range data.Plans {
				a.printer.Info("plan %s (%d entries)", plan.PlanID, len(plan.Entries))
			}
			return nil
		},
	}

	cmd.AddCommand(showCmd, generateCmd, historyCmd)
	return cmd
}

func (a *app) summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <healthId>",
		Short: "Show the AI patient overview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			regenerate, _ := cmd.Flags().GetBool("generate")

			ctx, cancel := signalContext()
			defer cancel()
			var (
				overview summary.Overview
				err      error
			)
			if regenerate {
				spinner := term.NewSpinner(cmd.OutOrStdout(), "generating summary")
				spinner.Start()
				overview, err = a.summaries.GenerateAndAwait(ctx, args[0], summary.DefaultPollInterval)
				spinner.Stop()
			} else {
				overview, err = a.summaries.Await(ctx, args[0], summary.DefaultPollInterval)
			}
			if err != nil {
				return err
			}
			a.printer.Info("%s", overview.Summary)
			return nil
		},
	}
	cmd.Flags().Bool("generate", false, "Generate a fresh overview before showing")
	return cmd
}

func (a *app) chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <query>",
		Short: "Ask the assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			patientID, _ := cmd.Flags().GetString("patient")
			filePath, _ := cmd.Flags().GetString("file")

			q := bot.Query{Text: strings.Join(args, " "), PatientID: patientID}
			if filePath != "" {
				content, err := os.ReadFile(filePath)
				if err != nil {
					return err
				}
				q.FileName = filePath
				q.Content = content
			}

			ctx, cancel := signalContext()
			defer cancel()
			reply, err := a.bot.Ask(ctx, q)
			if err != nil {
				return err
			}
			a.printer.Info("%s", reply.Text)

			if export, _ := cmd.Flags().GetString("export"); export != "" {
				f, err := os.Create(export)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := a.bot.Transcript().ExportJSON(f); err != nil {
					return err
				}
				a.printer.Success("transcript written to %s", export)
			}
			return nil
		},
	}
	cmd.Flags().String("patient", "", "Scope the question to a patient ID")
	cmd.Flags().String("file", "", "Attach a document")
	cmd.Flags().String("export", "", "Write the transcript JSON to a file")
	return cmd
}

// ---------------------------------------------------------------------------
// Sandbox
// ---------------------------------------------------------------------------

func sandboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Serve the synthetic in-memory backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			e := echo.New()
			e.HideBanner = true
			e.Use(echomw.Recover())
			sandbox.New().Register(e)

			ctx, cancel := signalContext()
			defer cancel()
			go func() {
				<-ctx.Done()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				_ = e.Shutdown(shutdownCtx)
			}()

			fmt.Printf("sandbox backend on %s (sign in with doc@medsyn.test / sandbox123)\n", addr)
			if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("addr", ":8088", "Listen address")
	return cmd
}
