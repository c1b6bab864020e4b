package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"wahoo2garmin/garmin"
	"wahoo2garmin/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion preview web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config server_addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}

	// Upload stays optional in server mode: without credentials the preview
	// endpoints still work.
	var uploader server.Uploader
	if client, err := garmin.New(cfg, nil, log); err == nil {
		uploader = client
	} else {
		log.Warnw("upload disabled", "err", err)
	}

	srv, err := server.New(llm, uploader, cfg, log)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.ServerAddr
	}
	if addr == "" {
		addr = ":8080"
	}
	log.Infow("starting web server", "addr", addr)
	return http.ListenAndServe(addr, srv.Routes())
}
