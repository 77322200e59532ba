package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mklimuk/marktask/pkg/api"
	"github.com/mklimuk/marktask/pkg/config"
	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/filter"
	"github.com/mklimuk/marktask/pkg/integration/calendar"
	"github.com/mklimuk/marktask/pkg/integration/discord"
	"github.com/mklimuk/marktask/pkg/integration/telegram"
	"github.com/mklimuk/marktask/pkg/sync"
	"github.com/mklimuk/marktask/pkg/tasks"
	"github.com/mklimuk/marktask/pkg/vault"
)

const shutdownTimeout = 10 * time.Second

// app carries the resolved configuration and flag values between commands.
type app struct {
	stdin  io.Reader
	stdout io.Writer

	configPath string
	cfg        *config.Config

	vault    string
	tag      string
	rev      string
	json     bool
	overdue  bool
	from, to string
	status   string
	listen   string
	calendar string
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout}

	root := &cobra.Command{
		Use:   "marktask",
		Short: "Processes Markdown tasks",
		Long: "marktask reads checklist items (- [ ] / - [x]) with Obsidian Tasks style\n" +
			"annotations from stdin or a vault and prints them as text or JSON.",
		Version:       "1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/marktask/config.yaml)")
	pf.StringVar(&a.vault, "vault", "", "Read tasks from an Obsidian vault instead of stdin")
	pf.StringVar(&a.tag, "tag", "", "Only read notes carrying this frontmatter tag")
	pf.StringVar(&a.rev, "rev", "", "Read the vault as committed at this git revision")
	pf.BoolVar(&a.overdue, "show-overdue", false, "Include overdue tasks")
	pf.StringVar(&a.from, "from", "", "Only tasks due on or after this date (YYYY-MM-DD or +Nd/-Nw/...)")
	pf.StringVar(&a.to, "to", "", "Only tasks due on or before this date (YYYY-MM-DD or +Nd/-Nw/...)")
	pf.StringVar(&a.status, "status", "", "Filter by completion: all, open or done")

	root.Flags().BoolVar(&a.json, "json", false, "Outputs the tasks in JSON format")

	list := &cobra.Command{
		Use:   "list",
		Short: "Print filtered tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context())
		},
	}
	list.Flags().BoolVar(&a.json, "json", false, "Outputs the tasks in JSON format")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve tasks over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}
	serve.Flags().StringVar(&a.listen, "listen", "", "HTTP listen address")

	bot := &cobra.Command{
		Use:   "bot",
		Short: "Answer task queries on Telegram and Discord",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBot(cmd.Context())
		},
	}

	export := &cobra.Command{
		Use:   "export-calendar",
		Short: "Push open tasks with a due date to Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd.Context())
		},
	}
	export.Flags().StringVar(&a.calendar, "calendar-id", "", "Target calendar ID")

	root.AddCommand(list, serve, bot, export)
	return root
}

// loadConfig reads the config file and lets explicitly set flags win.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("vault") {
		a.vault = cfg.Vault
	}
	if !flags.Changed("tag") {
		a.tag = cfg.Tag
	}
	if !flags.Changed("show-overdue") {
		a.overdue = cfg.ShowOverdue
	}
	if !flags.Changed("status") {
		a.status = cfg.Status
	}
	if !flags.Changed("json") {
		a.json = a.json || cfg.JSON
	}
	if !flags.Changed("listen") {
		a.listen = cfg.Listen
	}
	if !flags.Changed("calendar-id") {
		a.calendar = cfg.Calendar.ID
	}
	a.cfg = cfg
	return nil
}

func (a *app) options() filter.Options {
	opts := filter.Options{
		ShowOverdue: a.overdue,
		Status:      filter.ParseStatus(a.status),
	}
	if a.from != "" {
		opts.From = &a.from
	}
	if a.to != "" {
		opts.To = &a.to
	}
	return opts
}

// source picks where tasks come from: a git revision of the vault, the
// vault on disk, or stdin.
func (a *app) source(requireVault bool) (tasks.Source, error) {
	parser := tasks.NewParser(nil)
	if a.vault == "" {
		if requireVault {
			return nil, errors.New("a vault is required: pass --vault or set vault in the config file")
		}
		if a.rev != "" {
			return nil, errors.New("--rev requires --vault")
		}
		input, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return tasks.TextSource{Text: string(input), Parser: parser}, nil
	}

	v := vault.New(a.vault, parser)
	v.Tag = a.tag
	if a.rev != "" {
		return sync.NewGitSource(a.vault, a.rev, v), nil
	}
	return v, nil
}

func (a *app) filtered(ctx context.Context, requireVault bool) ([]*tasks.Task, error) {
	src, err := a.source(requireVault)
	if err != nil {
		return nil, err
	}
	all, err := src.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Build(a.options(), dates.NewResolver(nil)).Apply(tasks.Refs(all)), nil
}

func (a *app) runList(ctx context.Context) error {
	ts, err := a.filtered(ctx, false)
	if err != nil {
		return err
	}
	if a.json {
		return tasks.WriteJSON(a.stdout, ts)
	}
	return tasks.WriteText(a.stdout, ts)
}

func (a *app) runServe(ctx context.Context) error {
	src, err := a.source(true)
	if err != nil {
		return err
	}
	router := api.NewRouter(src, dates.NewResolver(nil), a.options())

	srv := &http.Server{Addr: a.listen, Handler: router}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := shutdown(srv); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}()

	log.Printf("Starting server on %s", a.listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// shutdown stops srv, giving in-flight requests shutdownTimeout to finish.
func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// runBot starts every chat bot that has a token configured.
func (a *app) runBot(ctx context.Context) error {
	tgToken, dcToken := a.cfg.Telegram.Token, a.cfg.Discord.Token
	if tgToken == "" && dcToken == "" {
		return errors.New("TELEGRAM_TOKEN or DISCORD_TOKEN environment variable (or telegram.token / discord.token config) is required")
	}
	src, err := a.source(true)
	if err != nil {
		return err
	}
	resolver := dates.NewResolver(nil)

	if tgToken != "" {
		bot, err := telegram.NewBot(tgToken, src, resolver)
		if err != nil {
			return err
		}
		if err := bot.Start(); err != nil {
			return fmt.Errorf("failed to start Telegram bot: %w", err)
		}
		log.Println("Telegram Bot started")
		defer bot.Stop()
	}

	if dcToken != "" {
		bot, err := discord.NewBot(dcToken, src, resolver)
		if err != nil {
			return err
		}
		if err := bot.Start(); err != nil {
			return fmt.Errorf("failed to start Discord bot: %w", err)
		}
		log.Println("Discord Bot started")
		defer func() {
			if err := bot.Stop(); err != nil {
				log.Printf("Failed to close Discord session: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}

func (a *app) runExport(ctx context.Context) error {
	creds := a.cfg.Calendar.CredentialsFile
	if creds == "" {
		return errors.New("GOOGLE_APPLICATION_CREDENTIALS or calendar.credentials_file is required")
	}
	ts, err := a.filtered(ctx, false)
	if err != nil {
		return err
	}
	svc, err := calendar.NewService(ctx, creds, a.calendar)
	if err != nil {
		return err
	}
	n, err := calendar.NewExporter(svc).Export(ctx, ts)
	log.Printf("Exported %d events to calendar %s", n, a.calendar)
	return err
}
