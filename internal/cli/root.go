// Package cli содержит команды утилиты atelierctl.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mmeshcher/atelier/internal/userclient"
)

type settings struct {
	BaseURL string `env:"USERS_API_URL"`
	Token   string `env:"USERS_API_TOKEN"`
}

type app struct {
	baseURL string
	token   string
	verbose bool

	logger *zap.Logger
	client *userclient.Client
}

// NewRootCommand собирает дерево команд atelierctl.
func NewRootCommand() *cobra.Command {
	a := &app{}

	var s settings
	// Ошибка разбора здесь невозможна: все поля строковые.
	_ = env.Parse(&s)
	if s.BaseURL == "" {
		s.BaseURL = userclient.DefaultBaseURL
	}

	root := &cobra.Command{
		Use:   "atelierctl",
		Short: "Client for the atelier users API and price calculator",
		Long: `atelierctl talks to the users API over HTTP and computes prices locally.

Examples:
  atelierctl users list --base-url http://localhost:3000/users
  atelierctl users get 1 2 3
  atelierctl users search --name Jean --age 30
  atelierctl price discount 1200 10
  atelierctl price taxed -- -5`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.baseURL, "base-url", s.BaseURL, "base URL of the users API (env USERS_API_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", s.Token, "Authorization header value sent as is (env USERS_API_TOKEN)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newUsersCommand(a))
	root.AddCommand(newPriceCommand())

	return root
}

func (a *app) init() error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	if a.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	a.logger = logger
	a.client = userclient.NewClient(a.baseURL)
	a.logger.Debug("users api client ready", zap.String("base_url", a.client.BaseURL()))
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
