package http

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/config"
	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/services"
	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	engine *gin.Engine
	cfg    config.Config
}

func NewServer(cfg config.Config) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	fm, err := storage.NewFileManager(cfg.AssetDir, cfg.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("init file manager: %w", err)
	}

	sessions := storage.NewSessionStore(cfg.SessionTTL)
	signer := services.NewSigner(cfg.SecretKey)
	rasterizer := services.NewRasterizerService(cfg.JPEGQuality)
	openaiSvc := services.NewOpenAIService(cfg)
	renderSvc := services.NewRenderService()
	pdfSvc := services.NewPDFService(cfg.WkhtmltopdfPath)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger())
	engine.Use(MaxBodySize(cfg.MaxUploadBytes))
	engine.Use(CORS())
	engine.Use(SessionCookie(sessions, signer, cfg.SessionTTL))

	engine.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	api := NewAPI(cfg, fm, sessions, rasterizer, openaiSvc, renderSvc, pdfSvc)
	registerRoutes(engine, api)

	return &Server{engine: engine, cfg: cfg}, nil
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	return s.engine.Run(addr)
}
