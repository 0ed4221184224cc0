// Command console is a terminal client for the SIRA academic records portal.
// It signs in, guards the requested dashboard by role, loads every panel the
// role can see, and renders them as text tables. Secret panels refuse export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/config"
	"github.com/noah-isme/sira-console/internal/dashboard"
	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/secrecy"
	"github.com/noah-isme/sira-console/internal/session"
	"github.com/noah-isme/sira-console/internal/view"
)

type options struct {
	username  string
	password  string
	guest     bool
	filter    string
	course    string
	student   string
	exportDir string
	verbose   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.username, "username", "", "portal username")
	flag.StringVar(&opts.password, "password", "", "portal password")
	flag.BoolVar(&opts.guest, "guest", false, "sign in with the shared guest account")
	flag.StringVar(&opts.filter, "filter", "", "substring filter applied to every panel")
	flag.StringVar(&opts.course, "course", "", "course ID filter for grade and attendance panels")
	flag.StringVar(&opts.student, "student", "", "student record ID to look up on the instructor dashboard")
	flag.StringVar(&opts.exportDir, "export", "", "directory to export panels as HTML (secret panels are skipped)")
	flag.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatalf("console: %v", err)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	client, err := api.New(cfg.PortalBaseURL, cfg.RequestTimeout, logger)
	if err != nil {
		return fmt.Errorf("build portal client: %w", err)
	}

	ctx := context.Background()

	var user *dto.User
	if opts.guest || opts.username == "" {
		user, err = session.GuestLogin(ctx, client)
	} else {
		user, err = session.Login(ctx, client, opts.username, opts.password)
	}
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	defer session.Logout(context.Background(), client)

	nav := &view.LogNavigator{Logger: logger}
	guard := session.NewGuard(client, nav, logger)
	if _, ok := guard.Require(ctx, user.Role); !ok {
		return fmt.Errorf("session rejected for role %s", user.Role)
	}

	logger.Info().Str("username", user.Username).Str("role", string(user.Role)).
		Str("landing", user.Role.LandingPath()).Msg("signed in")

	validate := validator.New(validator.WithRequiredStructEnabled())
	page, overlay := buildPage(ctx, cfg, client, validate, user.Role, opts, logger)
	page.RefreshAll(ctx)

	return render(page, overlay, opts)
}

// buildPage assembles the dashboard for the signed-in role and flags its
// secret panels on a fresh overlay.
func buildPage(ctx context.Context, cfg config.Config, client *api.Client, validate *validator.Validate, role dto.Role, opts options, logger zerolog.Logger) (*dashboard.Page, *secrecy.Overlay) {
	var page *dashboard.Page
	switch role {
	case dto.RoleAdmin:
		admin := dashboard.NewAdminPage(client, validate, cfg.AuditLimit, logger)
		page = admin.Page
	case dto.RoleInstructor:
		instructor := dashboard.NewInstructorPage(client, validate, logger)
		if opts.course != "" {
			instructor.SelectCourse(opts.course)
		}
		if opts.student != "" {
			instructor.LookupStudent(ctx, opts.student)
		}
		page = instructor.Page
	case dto.RoleTA:
		ta := dashboard.NewTAPage(client, validate, logger)
		if opts.course != "" {
			ta.SelectCourse(opts.course)
		}
		page = ta.Page
	case dto.RoleStudent:
		page = dashboard.NewStudentPage(client, validate, logger).Page
	default:
		page = dashboard.NewGuestPage(client, logger).Page
	}

	overlay := secrecy.NewOverlay(page.Surface(), logger)
	overlay.Install()
	for _, table := range page.Tables() {
		if table.Secret() {
			overlay.Protect(table)
		}
	}

	return page, overlay
}

func render(page *dashboard.Page, overlay *secrecy.Overlay, opts options) error {
	for _, table := range page.Tables() {
		if opts.filter != "" {
			table.Filter(opts.filter)
		}

		fmt.Printf("== %s ==\n", table.Name())
		if err := table.WriteText(os.Stdout); err != nil {
			return err
		}
		fmt.Println()

		if opts.exportDir != "" {
			if blocked := overlay.Intercept(secrecy.Event{Kind: secrecy.EventExport, Target: table.Name()}); blocked {
				continue
			}
			path := filepath.Join(opts.exportDir, table.Name()+".html")
			if err := os.WriteFile(path, []byte(table.HTML()), 0o644); err != nil {
				return fmt.Errorf("export %s: %w", table.Name(), err)
			}
		}
	}

	if text := page.Surface().Text(); text != "" {
		fmt.Println(text)
	}
	return nil
}
