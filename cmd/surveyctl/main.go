// Package main runs surveyctl, the terminal front end of the survey client.
// Each subcommand corresponds to a page of the web application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Raddames-Tonui/simple-survey-client/config"
	"github.com/Raddames-Tonui/simple-survey-client/internal/api"
	"github.com/Raddames-Tonui/simple-survey-client/internal/authoring"
	"github.com/Raddames-Tonui/simple-survey-client/internal/listing"
	"github.com/Raddames-Tonui/simple-survey-client/internal/session"
	"github.com/Raddames-Tonui/simple-survey-client/internal/storage"
	"github.com/Raddames-Tonui/simple-survey-client/internal/survey"
	"github.com/Raddames-Tonui/simple-survey-client/pkg/notify"
)

const usage = `usage: surveyctl <command> [flags]

commands:
  login       -email -password        authenticate and store the session
  signup      -name -email -password  register a new account
  logout                              end the session (local state always cleared)
  whoami                              show the authenticated user
  surveys     [-featured]             list published surveys
  mine                                list your own surveys (requires login)
  answer      <survey-id>             answer a survey interactively
  create      [-cancel]               compose and post a new survey
  responses   [-page N] [-email X]    browse submitted responses
  cert        <cert-id> [-o file]     download a certificate attachment
`

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	notifier *notify.Notifier
	state    *storage.Store
	client   *api.Client
	session  *session.Store
	surveys  *survey.Store
	listings *listing.Service
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	state, err := storage.New(cfg.State.Dir, logger)
	if err != nil {
		logger.Fatal("open state dir", zap.Error(err))
	}

	notifier := notify.New(logger)
	client := api.New(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSec)*time.Second, logger)

	sessions := session.New(client, state, notifier, logger)
	// Route guards consult session state; restoration must complete first.
	sessions.Restore()

	a := &app{
		cfg:      cfg,
		logger:   logger,
		notifier: notifier,
		state:    state,
		client:   client,
		session:  sessions,
		surveys:  survey.NewStore(client, notifier, logger),
		listings: listing.New(client, notifier, logger, cfg.Listing.FeaturedCount),
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Debug("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "signup":
		return a.cmdSignup(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		return nil
	case "whoami":
		return a.cmdWhoami()
	case "surveys":
		return a.cmdSurveys(ctx, args)
	case "mine":
		return a.cmdMine(ctx)
	case "answer":
		return a.cmdAnswer(ctx, args)
	case "create":
		return a.cmdCreate(ctx, args)
	case "responses":
		return a.cmdResponses(ctx, args)
	case "cert":
		return a.cmdCert(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}
	return a.session.Login(ctx, *email, *password)
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "viewer", "account role (admin or viewer)")
	fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		return fmt.Errorf("signup requires -name, -email and -password")
	}
	return a.session.SignUp(ctx, *name, *email, *password, roleFrom(*role))
}

func (a *app) cmdWhoami() error {
	user := a.session.User()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.Email, user.Role)
	return nil
}

func (a *app) cmdSurveys(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("surveys", flag.ExitOnError)
	featured := fs.Bool("featured", false, "show only the featured subset")
	fs.Parse(args)

	list := a.listings.Published
	if *featured {
		list = a.listings.Featured
	}
	surveys, err := list(ctx)
	if err != nil {
		return err
	}
	if len(surveys) == 0 {
		fmt.Println("no active surveys found")
		return nil
	}
	for _, s := range surveys {
		fmt.Printf("%4d  %s\n", s.ID, s.Title)
		if s.Description != "" {
			fmt.Printf("      %s\n", s.Description)
		}
	}
	return nil
}

func (a *app) cmdMine(ctx context.Context) error {
	token, err := a.session.AccessToken(ctx)
	if err != nil {
		a.notifier.Errorf("you must be logged in to list your surveys")
		return err
	}
	surveys, err := a.listings.Mine(ctx, token)
	if err != nil {
		return err
	}
	for _, s := range surveys {
		published := "draft"
		if s.IsPublished {
			published = "published"
		}
		fmt.Printf("%4d  %-10s %s\n", s.ID, published, s.Title)
	}
	return nil
}

func (a *app) cmdCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	cancel := fs.Bool("cancel", false, "discard the persisted authoring draft")
	fs.Parse(args)

	builder := authoring.New(a.client, a.state, a.notifier, a.logger)
	if *cancel {
		builder.Cancel()
		a.notifier.Successf("authoring draft discarded")
		return nil
	}

	token, err := a.session.AccessToken(ctx)
	if err != nil {
		a.notifier.Errorf("you must be logged in to create a survey")
		return err
	}
	return a.runAuthoring(ctx, builder, token)
}

func (a *app) cmdResponses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("responses", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	email := fs.String("email", "", "filter by respondent email")
	fs.Parse(args)

	result, err := a.listings.Responses(ctx, *page, *email)
	if err != nil {
		return err
	}
	for _, r := range result.Responses {
		fmt.Printf("response %d (%s)\n", r.ResponseID, r.DateResponded)
		for key, value := range r.Fields {
			fmt.Printf("  %s: %s\n", key, value)
		}
		for _, cert := range r.Certificates {
			fmt.Printf("  certificate %d: %s (%s)\n", cert.ID, cert.FileName, cert.FileURL)
		}
	}
	fmt.Printf("page %d of %d (%d total)\n", result.CurrentPage, result.LastPage, result.TotalCount)
	return nil
}

func (a *app) cmdCert(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cert", flag.ExitOnError)
	out := fs.String("o", "", "output file (default certificate-<id>.pdf)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("cert requires a certificate id")
	}
	var certID int
	if _, err := fmt.Sscanf(fs.Arg(0), "%d", &certID); err != nil {
		return fmt.Errorf("invalid certificate id %q", fs.Arg(0))
	}

	data, err := a.listings.DownloadCertificate(ctx, certID)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = fmt.Sprintf("certificate-%d.pdf", certID)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.notifier.Successf("saved %s", path)
	return nil
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	if os.Getenv("SURVEY_DEBUG") == "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}
	logger, _ := cfg.Build()
	return logger
}
