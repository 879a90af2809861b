// Package servecmder provides the serve command that runs the chat server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/executehq/concierge/pkg/config"
	"github.com/executehq/concierge/pkg/gateway"
	"github.com/executehq/concierge/pkg/logger"
	"github.com/executehq/concierge/server"
)

type ServeCommander struct {
	listen         string
	allowedOrigins string
	gatewayURL     string
	model          string
	storage        string
	sqlitePath     string
	postgresDSN    string
	kafkaBrokers   string
	kafkaTopic     string

	logFormat  string
	numWorkers uint
	queueSize  uint
	disableMCP bool

	configDir string
	debug     bool
	cfg       *config.Config
	logger    *slog.Logger
}

// serveFlags are the registry keys bound to viper for this command.
var serveFlags = []string{
	config.FlagListen,
	config.FlagAllowedOrigins,
	config.FlagGatewayURL,
	config.FlagModel,
	config.FlagStorage,
	config.FlagSQLite,
	config.FlagPostgresDSN,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

const serveLongDesc string = `Run the concierge chat server.

The server accepts conversations on POST /chat, prepends the system prompt
and relays the gateway's server-sent event stream back to the caller while
decoding it. Each finished exchange is stored as a transcript and, when
Kafka brokers are configured, published as a chat event.

The gateway API key is read from gateway.api_key in config.toml or the
CONCIERGE_GATEWAY_API_KEY environment variable.

Storage drivers:
  memory     transcripts are kept until the server exits (default)
  sqlite     transcripts are kept in --sqlite, or .concierge/concierge.db
  postgres   transcripts are kept in the database at --postgres-dsn

Examples:
  concierge serve
  concierge serve --listen :9000 --storage sqlite
  concierge serve --kafka-brokers localhost:9092 --kafka-topic concierge.chats`

const serveShortDesc string = "Run the concierge chat server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)

			cmder.cfg, err = config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	for key, target := range map[string]*string{
		config.FlagListen:         &cmder.listen,
		config.FlagAllowedOrigins: &cmder.allowedOrigins,
		config.FlagGatewayURL:     &cmder.gatewayURL,
		config.FlagModel:          &cmder.model,
		config.FlagStorage:        &cmder.storage,
		config.FlagSQLite:         &cmder.sqlitePath,
		config.FlagPostgresDSN:    &cmder.postgresDSN,
		config.FlagKafkaBrokers:   &cmder.kafkaBrokers,
		config.FlagKafkaTopic:     &cmder.kafkaTopic,
	} {
		config.AddStringFlag(cmd, config.Flags, key, target)
	}

	cmd.Flags().StringVar(&cmder.logFormat, "log-format", string(logger.FormatJSON), "Log format (text, json, pretty)")
	cmd.Flags().UintVar(&cmder.numWorkers, "workers", 0, "Transcript workers (0 uses the default)")
	cmd.Flags().UintVar(&cmder.queueSize, "queue-size", 0, "Transcript queue size (0 uses the default)")
	cmd.Flags().BoolVar(&cmder.disableMCP, "no-mcp", false, "Serve /mcp without tools")

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := logger.ParseFormat(c.logFormat)
	if err != nil {
		return err
	}
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithFormat(format),
	)

	driver, err := newDriver(ctx, c.cfg.Storage, c.configDir, c.logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	publisher, err := newPublisher(c.cfg.Events, c.logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	gw := newGateway(c.cfg.Gateway, c.logger)
	if c.cfg.Gateway.APIKey == "" {
		c.logger.Warn("no gateway api key configured, chat requests will fail",
			"env", config.EnvPrefix+"_GATEWAY_API_KEY",
		)
	}

	srv, err := server.New(server.Config{
		ListenAddr:     c.cfg.Server.Listen,
		AllowedOrigins: c.cfg.Server.Origins(),
		NumWorkers:     c.numWorkers,
		QueueSize:      c.queueSize,
		DisableMCP:     c.disableMCP,
	}, gw, driver, publisher, c.logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer srv.Close()

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- fmt.Errorf("chat server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	}
}

func newGateway(cfg config.GatewayConfig, log *slog.Logger) *gateway.Client {
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = gateway.DefaultSystemPrompt
	}

	return gateway.New(gateway.Config{
		URL:          cfg.URL,
		APIKey:       cfg.APIKey,
		Model:        cfg.Model,
		SystemPrompt: prompt,
		Logger:       log,
	})
}
