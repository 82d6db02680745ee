package ui

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "storereport/internal/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpload ingests one export file and returns the upload ID, the entity
// selection list and a column summary.
func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Printf("[handleUpload] no file in request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	defer file.Close()

	maxBytes := int64(s.cfg.Server.MaxUploadMB) * 1024 * 1024
	if header.Size > maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file size (%.1f MB) exceeds the %d MB limit",
				float64(header.Size)/(1024*1024), s.cfg.Server.MaxUploadMB),
		})
		return
	}

	name := strings.ToLower(header.Filename)
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") && !strings.HasSuffix(name, ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only Excel (.xlsx, .xls) and CSV (.csv) files are allowed"})
		return
	}

	raw, err := s.reader.Read(file, header.Filename)
	if err != nil {
		log.Printf("[handleUpload] parse failed for %s: %v", header.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.service.Ingest(raw, header.Filename)
	if err != nil {
		s.writeError(c, err)
		return
	}

	log.Printf("[handleUpload] %s ingested as %s", header.Filename, result.UploadID)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleEntities(c *gin.Context) {
	entities, err := s.service.Entities(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entities": entities,
		"count":    len(entities),
	})
}

// handleReport renders one entity's report and streams the PNG back with a
// download filename.
func (s *Server) handleReport(c *gin.Context) {
	entity := c.Query("entity")
	if entity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity query parameter is required"})
		return
	}

	img, filename, err := s.service.Generate(c.Request.Context(), c.Param("id"), entity)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "image/png", img)
}

func (s *Server) handleDrop(c *gin.Context) {
	s.service.Drop(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "upload dropped"})
}

// writeError maps application error codes to HTTP statuses. Shape errors are
// surfaced verbatim so the message stays actionable while the source file is
// being cleaned up.
func (s *Server) writeError(c *gin.Context, err error) {
	switch apperrors.GetCode(err) {
	case apperrors.CodeMalformedInput:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case apperrors.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.CodeInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[Server] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
