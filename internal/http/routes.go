package http

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/config"
	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/domain"
	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/storage"
)

// Rasterizer converts an uploaded document into Base64-encoded page images.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string) ([]string, error)
}

// SummaryGenerator produces the raw summary text for a page sequence.
type SummaryGenerator interface {
	Generate(ctx context.Context, pages []string, variant domain.PromptVariant) (string, error)
}

// Renderer turns raw completion text into display HTML.
type Renderer interface {
	Render(raw string) (string, error)
}

// PDFExporter transcodes draft HTML into PDF bytes.
type PDFExporter interface {
	Export(html string) ([]byte, error)
}

type API struct {
	cfg        config.Config
	files      *storage.FileManager
	sessions   *storage.SessionStore
	rasterizer Rasterizer
	generator  SummaryGenerator
	renderer   Renderer
	exporter   PDFExporter
}

func NewAPI(cfg config.Config, fm *storage.FileManager, sessions *storage.SessionStore, rasterizer Rasterizer, generator SummaryGenerator, renderer Renderer, exporter PDFExporter) *API {
	return &API{
		cfg:        cfg,
		files:      fm,
		sessions:   sessions,
		rasterizer: rasterizer,
		generator:  generator,
		renderer:   renderer,
		exporter:   exporter,
	}
}

func registerRoutes(r *gin.Engine, api *API) {
	r.GET("/health", api.handleHealth)

	r.GET("/", api.handleHome)
	r.POST("/", api.handleUpload)

	r.GET("/clinic", api.handleGenerate(domain.VariantClinical))
	r.POST("/clinic", api.handleGenerate(domain.VariantClinical))
	r.GET("/patient-friendly", api.handleGenerate(domain.VariantPatientFriendly))
	r.POST("/patient-friendly", api.handleGenerate(domain.VariantPatientFriendly))

	r.GET("/summary", api.handleSummary)
	r.POST("/summary", api.handleSummary)
	r.GET("/edit", api.handleEditForm)
	r.POST("/edit", api.handleEditSubmit)
	r.GET("/download", api.handleDownload)
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"flashes": a.sessions.PopFlashes(sessionID(c)),
	})
}

func (a *API) handleUpload(c *gin.Context) {
	sid := sessionID(c)

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		a.flashAndRedirect(c, "No file part", "/")
		return
	}
	if fileHeader.Filename == "" {
		a.flashAndRedirect(c, "No selected file", "/")
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		a.flashAndRedirect(c, "Please upload a PDF file", "/")
		return
	}

	upload, err := fileHeader.Open()
	if err != nil {
		log.Printf("error opening upload: %v", err)
		a.flashAndRedirect(c, "Unable to read uploaded file", "/")
		return
	}
	defer upload.Close()

	path, err := a.files.SaveUploadedPDF(upload, fileHeader.Filename)
	if err != nil {
		log.Printf("error saving upload: %v", err)
		a.flashAndRedirect(c, "Unable to save uploaded file", "/")
		return
	}

	pages, err := a.rasterizer.Rasterize(c.Request.Context(), path)
	if err != nil {
		log.Printf("rasterization failed: %v", err)
		a.flashAndRedirect(c, "Could not read the uploaded document", "/")
		return
	}

	a.sessions.SetPages(sid, pages)
	log.Printf("upload stored: session=%s pages=%d", sid, len(pages))

	c.Redirect(http.StatusFound, "/clinic")
}

func (a *API) handleGenerate(variant domain.PromptVariant) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := sessionID(c)

		pages, err := a.sessions.Pages(sid)
		if err != nil {
			a.flashAndRedirect(c, "Please upload a document first", "/")
			return
		}

		raw, err := a.generator.Generate(c.Request.Context(), pages, variant)
		if err != nil {
			log.Printf("generation failed: %v", err)
			a.flashAndRedirect(c, "Summary generation failed, please try again", "/")
			return
		}

		content, err := a.renderer.Render(raw)
		if err != nil {
			log.Printf("render failed: %v", err)
			a.flashAndRedirect(c, "Summary generation failed, please try again", "/")
			return
		}

		a.sessions.SetDraft(sid, domain.Draft{Content: content, Variant: variant})
		c.Redirect(http.StatusFound, "/summary")
	}
}

func (a *API) handleSummary(c *gin.Context) {
	sid := sessionID(c)

	draft, err := a.sessions.Draft(sid)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "summary.html", gin.H{
		"content":  template.HTML(draft.Content),
		"isClinic": draft.Variant.IsClinical(),
		"flashes":  a.sessions.PopFlashes(sid),
	})
}

func (a *API) handleEditForm(c *gin.Context) {
	sid := sessionID(c)

	draft, err := a.sessions.Draft(sid)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "edit.html", gin.H{
		"content": draft.Content,
		"flashes": a.sessions.PopFlashes(sid),
	})
}

func (a *API) handleEditSubmit(c *gin.Context) {
	sid := sessionID(c)

	draft, err := a.sessions.Draft(sid)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	body := c.PostForm("body")
	if strings.TrimSpace(body) == "" {
		// Validation failure redisplays the form; stored content is untouched.
		c.HTML(http.StatusOK, "edit.html", gin.H{
			"content":         draft.Content,
			"validationError": "This field is required.",
		})
		return
	}

	draft.Content = body
	a.sessions.SetDraft(sid, draft)
	a.sessions.AddFlash(sid, "You've updated the discharge summary")

	c.Redirect(http.StatusFound, "/summary")
}

func (a *API) handleDownload(c *gin.Context) {
	sid := sessionID(c)

	draft, err := a.sessions.Draft(sid)
	if err != nil {
		if !errors.Is(err, domain.ErrNoDraft) {
			log.Printf("draft lookup failed: %v", err)
		}
		a.flashAndRedirect(c, "No content available for download.", "/")
		return
	}

	pdfBytes, err := a.exporter.Export(draft.Content)
	if err != nil {
		log.Printf("pdf export failed: %v", err)
		a.flashAndRedirect(c, "Failed to generate PDF.", "/summary")
		return
	}

	c.Header("Content-Disposition", `attachment; filename=discharge_summary.pdf`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (a *API) flashAndRedirect(c *gin.Context, message, location string) {
	a.sessions.AddFlash(sessionID(c), message)
	c.Redirect(http.StatusFound, location)
}
