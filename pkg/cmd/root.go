package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"signup-relay/pkg/api"
	"signup-relay/pkg/clients/mailchimp"
	"signup-relay/pkg/config"
	"signup-relay/pkg/services"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	envFile   string
	port      string
	staticDir string
	timeout   string
	logLevel  string
}

// NewRootCommand builds the signup-relay command
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "signup-relay",
		Short:         "Relay signup form submissions to a Mailchimp list",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(opts.envFile); err != nil {
				logrus.Infof("No env file loaded from %s: %v", opts.envFile, err)
			}

			cfg := config.LoadConfig()
			applyFlags(cmd.Flags(), opts, cfg)

			if err := setupLogging(cfg.LogLevel); err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	addFlags(cmd.Flags(), opts)
	return cmd
}

func addFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVar(&opts.envFile, "env-file", ".env", "Path of a dotenv file to load before reading the environment")
	fs.StringVarP(&opts.port, "port", "p", config.DefaultPort, "Port to listen on (overrides PORT)")
	fs.StringVar(&opts.staticDir, "static-dir", config.DefaultStaticDir, "Directory holding signup.html and thankyou.html (overrides STATIC_DIR)")
	fs.StringVar(&opts.timeout, "timeout", config.DefaultRequestTimeout.String(), "Timeout for the Mailchimp call (overrides MAILCHIMP_TIMEOUT)")
	fs.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

// applyFlags overrides environment values with flags set explicitly on the command line
func applyFlags(fs *pflag.FlagSet, opts *options, cfg *config.Config) {
	if fs.Changed("port") {
		cfg.Port = opts.port
	}
	if fs.Changed("static-dir") {
		cfg.StaticDir = opts.staticDir
	}
	if fs.Changed("timeout") {
		cfg.RequestTimeout = config.ParseTimeout(opts.timeout)
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
}

func setupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// NewServer wires the client, service and handlers for cfg
func NewServer(cfg *config.Config) http.Handler {
	gin.SetMode(cfg.GinMode)

	mailchimpClient := mailchimp.NewClient(
		cfg.MailchimpInstance,
		cfg.MailchimpListID,
		cfg.MailchimpAPIKey,
		cfg.RequestTimeout,
	)
	signupService := services.NewSignupService(mailchimpClient)
	handlers := api.NewHandlers(signupService)

	return api.NewRouter(handlers, cfg.StaticDir, cfg.AllowedOrigins)
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("error listening on port %s: %w", cfg.Port, err)
	}

	srv := &http.Server{
		Handler:           NewServer(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logrus.Infof("Server listening on port %s", cfg.Port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error serving: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
