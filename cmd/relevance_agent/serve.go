package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-relevance/internal/observability"
	"github.com/jonathan/resume-relevance/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the feature pipeline over REST. When a database is configured the
/samples routes store document pairs and their feature vectors; otherwise they answer 503.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT env var, then 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	metrics := observability.NewMetrics()
	p, err := newPipeline(ctx, cfg, metrics)
	if err != nil {
		return err
	}
	defer func() { _ = p.close() }()

	srvCfg := server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Assembler:      p.assembler,
		Keywords:       p.keywords,
		Experience:     p.experience,
		Provider:       string(p.embedding.Provider),
		Model:          p.embedding.Model,
		Metrics:        metrics,
	}

	if cfg.DatabaseURL != "" {
		database, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		srvCfg.Store = database
	} else {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No database configured; /samples routes are disabled")
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
