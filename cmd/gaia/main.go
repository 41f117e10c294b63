package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/uwincm/gaia-hazlab-catalog/internal/db"
	"github.com/uwincm/gaia-hazlab-catalog/internal/server"
	"github.com/uwincm/gaia-hazlab-catalog/internal/wms"
)

// Options defines all CLI flags and env vars for the catalog server.
// Flags: --host, --port, --data-dir, --web-dir, --wms-endpoint, --debug
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, ...
type Options struct {
	Host        string `doc:"Host to bind to" default:"0.0.0.0"`
	Port        int    `doc:"Port to listen on" short:"p" default:"8088"`
	DataDir     string `doc:"Directory for catalog data files" default:".data"`
	WebDir      string `doc:"Path to web/ directory" default:"web"`
	WMSEndpoint string `doc:"WMS GetCapabilities endpoint for legend discovery" default:""`
	Debug       bool   `doc:"Enable debug logging" short:"d" default:"false"`
}

func newLogger(opts *Options) *zap.Logger {
	var logger *zap.Logger
	var err error
	if opts.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)
	return logger
}

func newServer(opts *Options, log *zap.Logger) *server.Server {
	endpoint := opts.WMSEndpoint
	if endpoint == "" {
		endpoint = wms.DefaultEndpoint
	}
	return server.New(server.Config{
		Host:        opts.Host,
		Port:        fmt.Sprintf("%d", opts.Port),
		DataDir:     opts.DataDir,
		WebDir:      opts.WebDir,
		WMSEndpoint: endpoint,
	}, log)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		log := newLogger(opts)
		srv := newServer(opts, log)

		hooks.OnStart(func() {
			defer log.Sync()
			defer srv.Close()

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			log.Info("catalog server starting",
				zap.String("url", baseURL),
				zap.String("data", opts.DataDir),
				zap.String("docs", baseURL+"/docs"))

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatal("server error", zap.Error(err))
			}
		})
	})

	cli.Root().Use = "gaia"
	cli.Root().Short = "Hazard catalog server for the GAIA landing page"
	cli.Root().Version = "1.0.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts, zap.NewNop())
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// import subcommand: load a feature file into the catalog database
	importCmd := &cobra.Command{
		Use:   "import <table> <file>",
		Short: "Import a Parquet or GeoJSON feature file into DuckDB",
		Args:  cobra.ExactArgs(2),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			conn, err := db.Get(db.Config{DataDir: opts.DataDir, DBName: "catalog"})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
				os.Exit(1)
			}
			defer db.Close()

			count, err := db.Import(conn, args[0], args[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Imported %d rows into %s\n", count, args[0])
		}),
	}
	cli.Root().AddCommand(importCmd)

	cli.Run()
}
