package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/supportdesk/ticketbot/pkg/bot"
	"github.com/supportdesk/ticketbot/pkg/command"
	"github.com/supportdesk/ticketbot/pkg/config"
	"github.com/supportdesk/ticketbot/pkg/console"
	"github.com/supportdesk/ticketbot/pkg/logging"
	"github.com/supportdesk/ticketbot/pkg/platform"
	"github.com/supportdesk/ticketbot/pkg/settings"
	"github.com/supportdesk/ticketbot/pkg/store"
	"github.com/supportdesk/ticketbot/pkg/ticket"
)

func (a *app) cmdRun(args []string) int {
	fs := a.flagSet("run")
	db := dbFlag(fs)
	cfgPath := configFlag(fs)
	guildPath := fs.String("guild", config.EnvOr("TICKETBOT_GUILD", defaultGuild), "guild fixture YAML")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	workers := fs.Int("workers", 1, "message handler workers")
	if code, done := a.parseFlags(fs, args); done {
		return code
	}

	logger, closeLog := logging.FromEnv(a.errOut)
	defer closeLog()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return a.errorf("run: %v", err)
	}
	guild, err := platform.LoadFixture(*guildPath)
	if err != nil {
		return a.errorf("run: %v", err)
	}
	if guild.GuildID() != cfg.GuildID {
		return a.errorf("run: bot has not joined guild %s (fixture is guild %s)", cfg.GuildID, guild.GuildID())
	}

	metrics := bot.NewMetrics()
	if err := a.openStore(*db, store.WithLogger(logger), store.WithPersistHook(metrics.StoreWrite)); err != nil {
		return a.errorf("run: %v", err)
	}
	set, err := settings.Load(a.store)
	if err != nil {
		return a.errorf("run: %v", err)
	}

	reg := cfg.Registry()
	table, err := command.NewTable(command.DefaultRules(reg))
	if err != nil {
		return a.errorf("run: %v", err)
	}
	tickets := ticket.NewManager(a.store, set, guild, ticket.ResolveLayout(cfg, guild, logger),
		ticket.WithLogger(logger),
		ticket.WithObserver(metrics),
	)
	b := bot.New(bot.Deps{
		Table:    table,
		Registry: reg,
		Settings: set,
		Tickets:  tickets,
		Platform: guild,
		GuildID:  cfg.GuildID,
	}, bot.WithLogger(logger), bot.WithMetrics(metrics))

	con := console.New(guild, a.in, a.out)
	guild.OnSend = con.Print

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "addr", *metricsAddr, "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", "addr", *metricsAddr)
	}

	engine := bot.NewEngine(b, bot.WithEngineLogger(logger), bot.WithWorkers(*workers))
	engine.RegisterAdapter(con)

	logger.Info("ready", "bot", guild.Self().Tag(), "guild", guild.GuildName(), "prefix", set.Prefix.Get())
	if err := engine.Run(ctx); err != nil {
		return a.errorf("run: %v", err)
	}
	return 0
}
