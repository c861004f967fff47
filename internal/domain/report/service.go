package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cardwatch/reporting-api/internal/domain/dashboard"
	"github.com/cardwatch/reporting-api/internal/platform/render"
	"github.com/cardwatch/reporting-api/internal/platform/reportstore"
)

const reportType = "nutrition"

// Result is the response body of a report generation.
type Result struct {
	Status           string   `json:"status"`
	File             string   `json:"file"`
	Path             string   `json:"path"`
	HTMLPath         string   `json:"html_path,omitempty"`
	Format           string   `json:"format"`
	SectionsIncluded []string `json:"sections_included"`
	Error            string   `json:"error,omitempty"`
}

// Service runs the report pipeline: dashboard payload, optional narrative,
// HTML document, PDF render, index entry. PDF failure is not fatal: the
// HTML document becomes the deliverable and the result says so.
type Service struct {
	dashboards *dashboard.Service
	html       *render.HTMLRenderer
	pdf        render.Renderer
	store      *reportstore.Store
	logger     zerolog.Logger
}

func NewService(
	dashboards *dashboard.Service,
	html *render.HTMLRenderer,
	pdf render.Renderer,
	store *reportstore.Store,
	logger zerolog.Logger,
) *Service {
	return &Service{
		dashboards: dashboards,
		html:       html,
		pdf:        pdf,
		store:      store,
		logger:     logger.With().Str("component", "report").Logger(),
	}
}

func (s *Service) Generate(ctx context.Context, patientID int64, start, end string, sections []string, includeAI bool) (*Result, error) {
	payload, err := s.buildPayload(ctx, patientID, start, end, sections, includeAI)
	if err != nil {
		return nil, err
	}

	htmlDoc, err := s.html.Render(payload)
	if err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}

	patientKey := strconv.FormatInt(patientID, 10)
	pdfFilename := s.store.Filename(patientKey, reportType, "pdf")
	htmlFilename := strings.TrimSuffix(pdfFilename, ".pdf") + ".html"

	htmlPath, err := s.store.WriteArtifact(htmlFilename, htmlDoc)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("path", htmlPath).Msg("html report created")

	if s.pdf == nil {
		if err := s.storeMetadata(patientKey, htmlFilename, "html", start, end); err != nil {
			return nil, err
		}
		return &Result{
			Status:           "HTML report generated (no PDF renderer configured)",
			File:             htmlFilename,
			Path:             htmlPath,
			Format:           "html",
			SectionsIncluded: sections,
		}, nil
	}

	pdfPath := s.store.ArtifactPath(pdfFilename)
	if renderErr := s.pdf.RenderPDF(ctx, htmlPath, pdfPath); renderErr != nil {
		s.logger.Error().Err(renderErr).Msg("pdf generation failed, falling back to html")
		if err := s.storeMetadata(patientKey, htmlFilename, "html", start, end); err != nil {
			return nil, err
		}
		return &Result{
			Status:           "HTML report generated (PDF failed)",
			File:             htmlFilename,
			Path:             htmlPath,
			Format:           "html",
			SectionsIncluded: sections,
			Error:            renderErr.Error(),
		}, nil
	}

	if err := s.storeMetadata(patientKey, pdfFilename, "pdf", start, end); err != nil {
		return nil, err
	}
	s.logger.Info().Str("path", pdfPath).Msg("pdf report created")
	return &Result{
		Status:           "Report generated",
		File:             pdfFilename,
		Path:             pdfPath,
		HTMLPath:         htmlPath,
		Format:           "pdf",
		SectionsIncluded: sections,
	}, nil
}

// RenderHTML builds the report document without persisting anything, for
// inline embedding.
func (s *Service) RenderHTML(ctx context.Context, patientID int64, start, end string, sections []string, includeAI bool) ([]byte, error) {
	payload, err := s.buildPayload(ctx, patientID, start, end, sections, includeAI)
	if err != nil {
		return nil, err
	}
	return s.html.Render(payload)
}

func (s *Service) buildPayload(ctx context.Context, patientID int64, start, end string, sections []string, includeAI bool) (*dashboard.Payload, error) {
	wantAI := includeAI && hasSection(sections, SectionAIAnalysis)
	payload, err := s.dashboards.Build(ctx, patientID, start, end, wantAI)
	if err != nil {
		return nil, err
	}
	if !hasSection(sections, SectionFoodConsumed) {
		payload.FoodItems = nil
	}
	return payload, nil
}

func (s *Service) storeMetadata(patientKey, filename, format, start, end string) error {
	rendererName := ""
	if format == "pdf" && s.pdf != nil {
		rendererName = s.pdf.Name()
	}
	meta := reportstore.Metadata{
		PatientID:   patientKey,
		Filename:    filename,
		ReportType:  reportType,
		Format:      format,
		Renderer:    rendererName,
		GeneratedAt: s.store.Timestamp(),
		DateRange:   reportstore.DateRange{Start: start, End: end},
	}
	if err := s.store.Append(meta); err != nil {
		return fmt.Errorf("store report metadata: %w", err)
	}
	return nil
}
