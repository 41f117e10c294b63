// Package server wires the catalog services into an HTTP server: the Huma
// REST API, the Datastar map UI, and the static landing page.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.uber.org/zap"

	"github.com/uwincm/gaia-hazlab-catalog/internal/api"
	"github.com/uwincm/gaia-hazlab-catalog/internal/api/mapui"
	"github.com/uwincm/gaia-hazlab-catalog/internal/db"
	"github.com/uwincm/gaia-hazlab-catalog/internal/geo"
	"github.com/uwincm/gaia-hazlab-catalog/internal/service"
	"github.com/uwincm/gaia-hazlab-catalog/internal/templates"
	"github.com/uwincm/gaia-hazlab-catalog/internal/wms"
)

// Config holds the server configuration.
type Config struct {
	Host        string
	Port        string
	DataDir     string
	WebDir      string // Path to web/ directory for static files and templates
	WMSEndpoint string // GetCapabilities endpoint for legend discovery
}

// Server is the catalog HTTP server.
type Server struct {
	config   Config
	log      *zap.Logger
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
	renderer *templates.Renderer
	state    *service.MapState
}

// New creates a new catalog server.
func New(cfg Config, log *zap.Logger) *Server {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("gaia-hazlab-catalog API", "1.0.0")
	humaConfig.Info.Description = "Hazard catalog API for the GAIA landing page: map layers, legends, and site lookups."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	humaAPI := humago.New(mux, humaConfig)

	bus := service.NewEventBus()

	services := &api.Services{
		Layer:   service.NewLayerService(cfg.DataDir, bus),
		Bus:     bus,
		WMS:     wms.NewClient(cfg.WMSEndpoint, nil),
		DataDir: cfg.DataDir,
	}

	// The site index is optional: it loads from data/sites.json when
	// present, and the nearest endpoints return 503 when it is not.
	sitesPath := filepath.Join(cfg.DataDir, "sites.json")
	if index, err := geo.LoadIndex(sitesPath); err == nil {
		services.Sites = index
		log.Info("site index loaded", zap.String("path", sitesPath))
	} else if !os.IsNotExist(err) {
		log.Warn("site index unavailable", zap.String("path", sitesPath), zap.Error(err))
	}

	renderer := newRenderer(cfg.WebDir, log)

	state := service.NewMapState(bus)
	state.ShowDefaults(services.Layer.Ordered())

	s := &Server{
		config:   cfg,
		log:      log,
		mux:      mux,
		humaAPI:  humaAPI,
		services: services,
		renderer: renderer,
		state:    state,
	}

	conn, err := db.Get(db.Config{DataDir: cfg.DataDir, DBName: "catalog"})
	if err != nil {
		log.Warn("database unavailable", zap.Error(err))
	} else {
		s.db = conn
	}

	s.routes()
	return s
}

func newRenderer(webDir string, log *zap.Logger) *templates.Renderer {
	if webDir != "" {
		fragmentsDir := filepath.Join(webDir, "templates", "fragments")
		if r, err := templates.New(fragmentsDir); err == nil {
			log.Info("fragment templates loaded", zap.String("dir", fragmentsDir))
			return r
		}
	}

	r, err := templates.NewEmbedded()
	if err != nil {
		// The embedded fragments are part of the binary; failing to parse
		// them is a programming error.
		panic(err)
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// DB returns the catalog database connection, or nil when unavailable.
func (s *Server) DB() *sql.DB {
	return s.db
}

// Close closes server resources.
func (s *Server) Close() error {
	return db.Close()
}

func (s *Server) routes() {
	api.NewAPIHandler(s.services).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)

	mapHandler := mapui.NewMapHandler(
		s.services.Layer, s.state, s.services.Bus, s.services.WMS, s.renderer, s.log)
	mapHandler.RegisterRoutes(s.humaAPI)

	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	s.mux.HandleFunc("/viewer", s.handleViewer)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "gaia-hazlab-catalog",
		"status":  "running",
	})
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	templatePath := filepath.Join(s.config.WebDir, "templates", "viewer.html")
	http.ServeFile(w, r, templatePath)
}
