package ui

import (
	"log"

	"github.com/gin-gonic/gin"

	"storereport/app"
	"storereport/internal/config"
	"storereport/ports"
)

// Server is the web front end: upload an export, pick a store, download the
// rendered report image.
type Server struct {
	router  *gin.Engine
	reader  ports.TableReader
	service *app.ReportService
	cfg     *config.Config
}

// NewServer creates the web server and registers all routes.
func NewServer(cfg *config.Config, reader ports.TableReader, service *app.ReportService) *Server {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router:  gin.Default(),
		reader:  reader,
		service: service,
		cfg:     cfg,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/upload", s.handleUpload)
	api.GET("/uploads/:id/entities", s.handleEntities)
	api.GET("/uploads/:id/report", s.handleReport)
	api.DELETE("/uploads/:id", s.handleDrop)
}

// Start runs the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	log.Printf("[Server] listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying engine for handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
