// handlers.go contains the implementations behind the cobra commands.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haasonsaas/agentline/internal/config"
	"github.com/haasonsaas/agentline/internal/connection"
	"github.com/haasonsaas/agentline/internal/directline"
	"github.com/haasonsaas/agentline/internal/observability"
)

type chatOptions struct {
	configPath string
	secret     string
	endpoint   string
	debug      bool
	polling    bool
}

// resolveConfig loads the config file (when given) and applies flag and
// environment overrides before validating.
func resolveConfig(opts chatOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		data, err := os.ReadFile(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		cfg, err = config.Parse(data)
		if err != nil {
			return nil, err
		}
	}

	if opts.secret != "" {
		cfg.Channel.Secret = opts.secret
	}
	if cfg.Channel.Secret == "" {
		cfg.Channel.Secret = os.Getenv("AGENTLINE_SECRET")
	}
	if opts.endpoint != "" {
		cfg.Channel.Endpoint = opts.endpoint
	}
	if opts.polling {
		cfg.Channel.PreferPolling = true
	}
	if opts.debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runChat drives the interactive session: one goroutine renders manager
// events, the main loop reads stdin and sends messages.
func runChat(ctx context.Context, opts chatOptions) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	client := directline.NewClient(directline.Config{
		Endpoint:      cfg.Channel.Endpoint,
		PreferPolling: cfg.Channel.PreferPolling,
		Logger:        logger,
	})

	mgrCfg := cfg.ManagerConfig()
	mgrCfg.Logger = logger
	mgr := connection.NewManager(mgrCfg, client)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)
		srv := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("metrics endpoint listening", "addr", cfg.Metrics.Listen)
	}

	if err := mgr.Connect(ctx, cfg.Channel.Secret); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer mgr.Disconnect()

	// fatal closes when the manager hits a terminal state.
	fatal := make(chan struct{})
	go dispatchEvents(ctx, mgr, metrics, fatal)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nleaving the conversation")
			return nil
		case <-fatal:
			return fmt.Errorf("connection failed; see output above")
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if text == "/quit" || text == "/exit" {
				return nil
			}
			if _, err := mgr.SendMessage(ctx, text, nil); err != nil {
				fmt.Printf("! %s\n", connection.UserMessage(err))
			}
		}
	}
}

// dispatchEvents is the single consumer of the manager's event stream. It
// renders events for the terminal and feeds the metrics exporter.
func dispatchEvents(ctx context.Context, mgr *connection.Manager, metrics *observability.Metrics, fatal chan<- struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-mgr.Events():
			if metrics != nil {
				metrics.ObserveEvent(ev)
				metrics.SetPhase(mgr.Phase())
			}
			if terminal := renderEvent(ev); terminal {
				close(fatal)
				return
			}
		}
	}
}

// renderEvent prints one event and reports whether it is terminal.
func renderEvent(ev connection.Event) bool {
	switch ev.Kind {
	case connection.EventConnecting:
		fmt.Printf("* %s\n", ev.Message)
	case connection.EventOnline:
		fmt.Println("* connected, say hello")
	case connection.EventEnded:
		fmt.Printf("* %s\n", ev.Message)
	case connection.EventShowTyping:
		fmt.Println("  agent is typing…")
	case connection.EventHideTyping:
		// The indicator is line-based here, nothing to erase.
	case connection.EventStreamingActivity:
		if ev.Activity != nil {
			fmt.Printf("  … %s\n", ev.Activity.Text)
		}
	case connection.EventStreamingEnd:
		if ev.Activity != nil && ev.Activity.Text != "" {
			fmt.Printf("agent: %s\n", ev.Activity.Text)
		}
	case connection.EventCompleteMessage:
		if ev.Activity != nil {
			fmt.Printf("agent: %s\n", ev.Activity.Text)
		}
	case connection.EventConversationUpdate, connection.EventEventActivity, connection.EventHealthUpdate:
		// Quiet on the terminal; metrics still see these.
	case connection.EventConnectionError:
		fmt.Printf("! %s\n", ev.Message)
	case connection.EventExpired:
		fmt.Printf("! %s\n", ev.Message)
		return true
	case connection.EventFailed:
		fmt.Printf("! %s (after %d attempts)\n", ev.Message, ev.RetryCount)
		return true
	}
	return false
}

// runStatus connects, waits for the first definitive outcome, reports it,
// and disconnects.
func runStatus(ctx context.Context, opts chatOptions) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  "warn",
		Format: cfg.Logging.Format,
	})

	client := directline.NewClient(directline.Config{
		Endpoint:      cfg.Channel.Endpoint,
		PreferPolling: cfg.Channel.PreferPolling,
		Logger:        logger,
	})

	mgrCfg := cfg.ManagerConfig()
	mgrCfg.Logger = logger
	mgrCfg.MaxRetries = 0 // one shot: report, do not linger in recovery
	mgr := connection.NewManager(mgrCfg, client)

	ctx, cancel := context.WithTimeout(ctx, mgrCfg.ConnectTimeout+10*time.Second)
	defer cancel()

	if err := mgr.Connect(ctx, cfg.Channel.Secret); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer mgr.Disconnect()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for the agent service")
		case ev := <-mgr.Events():
			switch ev.Kind {
			case connection.EventOnline:
				fmt.Printf("online: conversation %s\n", mgr.ConversationID())
				return nil
			case connection.EventFailed, connection.EventExpired:
				return fmt.Errorf("%s", ev.Message)
			}
		}
	}
}
