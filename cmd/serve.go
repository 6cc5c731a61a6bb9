package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sherut/sherut/core"
	"github.com/sherut/sherut/core/config"
	"github.com/sherut/sherut/core/logger"
	"github.com/spf13/cobra"
)

var (
	servePort     int
	serveLogLevel string
	serveShell    string
	serveHeaders  string
	serveQuery    string
	serveRoutes   []string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway on a local port.",
	Long: `Start the gateway. Routes come from the config file and from repeated
--route flags, in that order. Flags override config file values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadServeConfig(cmd)
		if err != nil {
			return err
		}

		level, err := logger.ParseLevel(configuration.LogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)

		if err := configuration.Validate(); err != nil {
			return err
		}

		if len(configuration.Routes) == 0 {
			logger.Warnf("No routes defined.")
		}

		gateway, err := core.NewGateway(configuration)
		if err != nil {
			return err
		}

		go func() {
			// Shutdown makes ListenAndServe return ErrServerClosed; only
			// real serve failures are fatal.
			if err := gateway.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err)
			}
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		log.Printf("Got signal %q, terminating...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := gateway.Shutdown(ctx); err != nil {
			log.Fatalf("Server shutdown failed: %s", err)
		}
		log.Print("Server exited")
		return nil
	},
}

// loadServeConfig loads the config file, tolerating a missing one, and
// applies flag overrides. A missing config file means flag-only operation.
func loadServeConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configuration, err := loadConfig()
	if errors.Is(err, fs.ErrNotExist) {
		configuration = config.New()
	} else if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("port") {
		configuration.Port = servePort
	}
	if cmd.Flags().Changed("log-level") {
		configuration.LogLevel = serveLogLevel
	}
	if cmd.Flags().Changed("shell") {
		configuration.Shell = serveShell
	}
	if cmd.Flags().Changed("header-format") {
		configuration.HeaderFormat = serveHeaders
	}
	if cmd.Flags().Changed("query-format") {
		configuration.QueryFormat = serveQuery
	}

	for _, raw := range serveRoutes {
		route, err := parseRouteFlag(raw)
		if err != nil {
			return nil, err
		}
		configuration.Routes = append(configuration.Routes, route)
	}

	// Fill gaps a sparse config file may leave.
	if configuration.Port == 0 {
		configuration.Port = servePort
	}
	if configuration.LogLevel == "" {
		configuration.LogLevel = serveLogLevel
	}

	return configuration, nil
}

// parseRouteFlag splits a --route flag of the form "SPEC=COMMAND" on the
// first equals sign.
func parseRouteFlag(raw string) (config.Route, error) {
	parts := strings.SplitN(raw, "=", 2)
	if len(parts) != 2 {
		return config.Route{}, errors.New(`--route must have the form "SPEC=COMMAND", e.g. --route "GET /user/:id=echo :id"`)
	}
	return config.Route{
		Route:   strings.TrimSpace(parts[0]),
		Command: parts[1],
	}, nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "log verbosity (error, warn, info, debug)")
	serveCmd.Flags().StringVar(&serveShell, "shell", "", "shell used to run commands (bash, zsh, fish, sh); auto-detected from $SHELL if not set")
	serveCmd.Flags().StringVar(&serveHeaders, "header-format", "", "format for passing headers to commands: 'assoc' uses associative arrays (bash/zsh only), 'json' exports HEADERS_JSON")
	serveCmd.Flags().StringVar(&serveQuery, "query-format", "", "format for passing query string parameters to commands: 'assoc' uses associative arrays (bash/zsh only), 'json' exports QUERY_JSON")
	serveCmd.Flags().StringArrayVar(&serveRoutes, "route", nil, `route binding of the form "SPEC=COMMAND"; may be repeated`)
	rootCmd.AddCommand(serveCmd)
}
