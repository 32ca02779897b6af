package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/minebot/config"
	"github.com/zeu5/minebot/envs"
	"github.com/zeu5/minebot/util"
)

// session holds what both modes need before touching the environment.
type session struct {
	ctx      context.Context
	done     func()
	logger   *log.Logger
	out      io.Writer
	colors   bool
	au       aurora.Aurora
	identity config.Identity
	registry *envs.Registry
}

// newSession wires interrupt handling, loads the player config and logs in.
// The caller must call done when finished.
func newSession(cmd *cobra.Command) (*session, error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(cmd.Context())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()

	out := cmd.OutOrStdout()
	colors := !flags.NoColor && util.Interactive(out)
	s := &session{
		ctx:    ctx,
		done:   func() { close(doneCh) },
		logger: log.New(cmd.ErrOrStderr(), "[minebot] ", log.LstdFlags),
		out:    out,
		colors: colors,
		au:     aurora.NewAurora(colors),
	}

	cfg, changed, err := config.LoadOrInit(flags.ConfigPath)
	if err != nil {
		s.done()
		return nil, err
	}
	if changed {
		if err := config.Persist(cfg, flags.ConfigPath); err != nil {
			s.done()
			return nil, err
		}
		s.logger.Printf("generated offline player name, saved to %s", flags.ConfigPath)
	}
	s.identity, err = config.Login(ctx, cfg, config.NewHTTPAuthenticator(cfg.AuthEndpoint))
	if err != nil {
		s.done()
		return nil, fmt.Errorf("login: %w", err)
	}
	fmt.Fprintf(out, "Using Minecraft username: %s\n", s.au.Bold(s.identity.Name))

	s.registry = envs.NewRegistry(envs.Options{Seed: flags.Seed, Colors: colors})
	return s, nil
}
