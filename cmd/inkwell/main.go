package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/inkwell-cms/go-inkwell/devserver"
	"github.com/inkwell-cms/go-inkwell/service"
	"github.com/inkwell-cms/go-inkwell/store/bunstore"
	"github.com/spf13/pflag"
)

func main() {
	var (
		flagConfig  = pflag.String("config", "", "path to the config file")
		flagServer  = pflag.String("server", "", "API base URL, overrides config")
		flagDB      = pflag.String("db", "", "path to the session database")
		flagServe   = pflag.Bool("serve", false, "run the development server instead of the client")
		flagAddr    = pflag.String("addr", ":8600", "listen address for --serve")
		flagVerbose = pflag.BoolP("verbose", "v", false, "debug logging")
	)
	pflag.Parse()

	ctx := context.Background()

	level := glog.Info
	if *flagVerbose {
		level = glog.Trace
	}
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(level),
		glog.WithName("inkwell"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)

	cfg, err := loadConfig(ctx, *flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inkwell: %v\n", err)
		os.Exit(1)
	}
	if *flagServer != "" {
		cfg.ServerURL = *flagServer
	}
	if *flagDB != "" {
		cfg.DBPath = *flagDB
	}

	if *flagVerbose {
		fmt.Println(print.MaybeHighlightJSON(cfg))
	}

	if *flagServe {
		runServe(ctx, lgr, *flagAddr)
		return
	}

	if err := runClient(ctx, lgr, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "inkwell: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context, lgr *glog.BaseLogger, addr string) {
	server, err := devserver.New(ctx, devserver.Config{
		Logger: lgr.GetLogger("devserver"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "inkwell: %v\n", err)
		os.Exit(1)
	}
	if err := server.Seed(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "inkwell: %v\n", err)
		os.Exit(1)
	}
	if err := server.Listen(addr); err != nil {
		fmt.Fprintf(os.Stderr, "inkwell: %v\n", err)
		os.Exit(1)
	}
}

func runClient(ctx context.Context, lgr *glog.BaseLogger, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return err
	}

	kv, err := bunstore.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer kv.Close()

	store := inkwell.NewCredentialStore(kv).WithLogger(lgr.GetLogger("store"))
	client := inkwell.NewClient(cfg.ServerURL, store).WithLogger(lgr.GetLogger("http"))

	services := newServices(client)
	manager := inkwell.NewSessionManager(services.users, store).WithLogger(lgr.GetLogger("session"))

	guard := newRouteGuard()

	app := newApp(ctx, services, manager, guard, lgr.GetLogger("ui"))
	program := tea.NewProgram(app, tea.WithAltScreen())

	// composition point: a rejected credential resets the session and
	// forces the UI onto the login screen
	client.OnCredentialRejected(func() {
		manager.HandleCredentialRejected()
		program.Send(forceLoginMsg{})
	})
	manager.OnChange(func(snap inkwell.SessionSnapshot) {
		program.Send(sessionChangedMsg{snap: snap})
	})

	// resolve any persisted credential before the first frame; a failure
	// just means we start signed out
	if err := manager.Init(ctx); err != nil {
		lgr.GetLogger("session").Info("starting signed out", "reason", err.Error())
	}

	_, err = program.Run()
	return err
}

// services bundles the resource wrappers the screens use.
type services struct {
	users    *service.Users
	articles *service.Articles
	cats     *service.Categories
	tags     *service.Tags
	links    *service.FriendLinks
	comments *service.Comments
	search   *service.Search
	settings *service.Settings
	uploads  *service.Uploads
}

func newServices(client *inkwell.Client) *services {
	return &services{
		users:    service.NewUsers(client),
		articles: service.NewArticles(client),
		cats:     service.NewCategories(client),
		tags:     service.NewTags(client),
		links:    service.NewFriendLinks(client),
		comments: service.NewComments(client),
		search:   service.NewSearch(client),
		settings: service.NewSettings(client),
		uploads:  service.NewUploads(client),
	}
}
