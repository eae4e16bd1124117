package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-explorer/internal/mapview"
	"github.com/joeblew999/plat-explorer/internal/server"
)

// Options defines all CLI flags and env vars for the explorer server.
// Flags: --host, --port, --data-dir, --web-dir, --app-title, ...
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_MAPBOX_TOKEN, ...
type Options struct {
	Host    string `doc:"Host to bind to" default:"0.0.0.0"`
	Port    int    `doc:"Port to listen on" short:"p" default:"8086"`
	DataDir string `doc:"Directory holding catalog.yaml" default:".data"`
	WebDir  string `doc:"Serve templates and static files from this web/ directory instead of the embedded copy"`

	AppTitle    string `doc:"Application title" default:"Dashboard"`
	Description string `doc:"Application description for meta tags"`
	MapboxToken string `doc:"Mapbox access token"`
	MapStyle    string `doc:"Mapbox style URL" default:"mapbox://styles/covid-nasa/ckb01h6f10bn81iqg98ne0i2y"`

	ColorPrimary string `doc:"Primary theme colour" default:"#2276ac"`
	ColorSurface string `doc:"Surface theme colour" default:"#ffffff"`
	ColorBase    string `doc:"Base theme colour" default:"#443f3f"`

	SessionTTL int `doc:"Minutes before a session without a stream is dropped" default:"10"`

	PosthogKey  string `doc:"PostHog project key, telemetry is off when empty"`
	PosthogHost string `doc:"PostHog endpoint" default:"https://eu.posthog.com"`
}

func newServer(opts *Options) (*server.Server, error) {
	return server.New(server.Config{
		Host:        opts.Host,
		Port:        fmt.Sprintf("%d", opts.Port),
		DataDir:     opts.DataDir,
		WebDir:      opts.WebDir,
		AppTitle:    opts.AppTitle,
		Description: opts.Description,
		MapboxToken: opts.MapboxToken,
		MapStyle:    opts.MapStyle,
		Theme: mapview.Theme{
			Primary: opts.ColorPrimary,
			Surface: opts.ColorSurface,
			Base:    opts.ColorBase,
		},
		SessionTTL:  time.Duration(opts.SessionTTL) * time.Minute,
		PostHogKey:  opts.PosthogKey,
		PostHogHost: opts.PosthogHost,
	})
}

func mustServer(opts *Options) *server.Server {
	srv, err := newServer(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return srv
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		var srv *server.Server

		hooks.OnStart(func() {
			srv = mustServer(opts)
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("plat-explorer starting...\n")
			fmt.Printf("  Explorer: %s/\n", baseURL)
			fmt.Printf("  Data:     %s\n", opts.DataDir)
			fmt.Printf("  Docs:     %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI:  %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})

		hooks.OnStop(func() {
			if srv != nil {
				srv.Close()
			}
		})
	})

	cli.Root().Use = "explorer"
	cli.Root().Short = "Explore earth observation layers on a map"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := mustServer(opts)
			defer srv.Close()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(srv.OpenAPI())
			} else {
				output, err = json.MarshalIndent(srv.OpenAPI(), "", "  ")
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

	// catalog subcommand: print the effective layer catalog
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the effective layer and projection catalog as YAML",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := mustServer(opts)
			defer srv.Close()

			output, err := srv.Catalog().Marshal()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling catalog: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(string(output))
		}),
	}
	cli.Root().AddCommand(catalogCmd)

	cli.Run()
}
