package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/export"
	"github.com/jengzang/trails-backend-go/internal/ingest"
	"github.com/jengzang/trails-backend-go/internal/models"
	"github.com/jengzang/trails-backend-go/internal/repository"
	"github.com/jengzang/trails-backend-go/internal/spatial"
)

// Service errors
var (
	ErrTrailNotFound  = errors.New("trail not found")
	ErrTrailExists    = errors.New("trail already exists")
	ErrJobNotFound    = errors.New("import job not found")
	ErrMissingName    = errors.New("trail name is required")
	ErrInvalidGeohash = errors.New("invalid geohash")
)

// Pagination limits for trail lists
const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Trail centres are hashed to cells of roughly 150 m
const geohashPrecision = 7

// TrailService handles business logic for trails
type TrailService struct {
	trailRepo *repository.TrailRepository
	opts      analysis.Options
	log       *zap.Logger
}

// NewTrailService creates a new trail service
func NewTrailService(trailRepo *repository.TrailRepository, opts analysis.Options, log *zap.Logger) *TrailService {
	return &TrailService{
		trailRepo: trailRepo,
		opts:      opts,
		log:       log.Named("trails"),
	}
}

// Analysis is the result of analysing an uploaded document
type Analysis struct {
	Report *analysis.Report
	Stats  ingest.Stats
}

// Analyze parses a GeoJSON document and analyses it without storing anything.
// name overrides the document's own name.
func (s *TrailService) Analyze(name string, r io.Reader) (*Analysis, error) {
	doc, err := ingest.Parse(r)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name == "" {
		name = doc.Name
	}

	report := analysis.Analyze(name, doc.Coordinates, s.opts)
	s.log.Debug("analysed document",
		zap.String("trail", name),
		zap.Int("points", len(doc.Coordinates)),
		zap.Int("skipped_coordinates", doc.Stats.SkippedCoordinates),
	)
	return &Analysis{Report: report, Stats: doc.Stats}, nil
}

// Create analyses an uploaded document and stores it under name
func (s *TrailService) Create(ctx context.Context, name string, r io.Reader) (*models.TrailDetail, error) {
	result, err := s.Analyze(name, r)
	if err != nil {
		return nil, err
	}
	if result.Report.Name == "" {
		return nil, ErrMissingName
	}
	return s.Store(ctx, result.Report, "")
}

// Store persists an analysed trail. source is the file it came from, if any.
func (s *TrailService) Store(ctx context.Context, report *analysis.Report, source string) (*models.TrailDetail, error) {
	exists, err := s.trailRepo.ExistsByName(ctx, report.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrTrailExists, report.Name)
	}

	detail := newTrailDetail(report, source)
	// A concurrent writer can take the name between the check and the insert
	if err := s.trailRepo.Save(ctx, detail, report.Points()); errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("%w: %s", ErrTrailExists, report.Name)
	} else if err != nil {
		return nil, fmt.Errorf("failed to save trail: %w", err)
	}

	s.log.Info("stored trail",
		zap.String("trail", detail.Name),
		zap.Float64("length_km", detail.LengthKm),
		zap.Int("segments", len(detail.Segments)),
		zap.Int("overall_difficulty", detail.Difficulty.OverallDifficulty),
	)
	return detail, nil
}

func newTrailDetail(report *analysis.Report, source string) *models.TrailDetail {
	m := report.Metrics
	center, ok := report.Center()

	detail := &models.TrailDetail{
		Trail: models.Trail{
			Name:              report.Name,
			LocationLat:       center.Lat,
			LocationLon:       center.Lon,
			LengthKm:          m.LengthKm,
			ElevationGain:     m.ElevationGain,
			ElevationLoss:     m.ElevationLoss,
			MinElevation:      m.MinElevation,
			MaxElevation:      m.MaxElevation,
			ElevationVariance: m.ElevationVariance,
			AvgSlope:          m.AvgSlope,
			MaxSlope:          m.MaxSlope,
			SourcePath:        source,
			Polyline:          export.Polyline(report.Points()),
		},
		Segments:   make([]models.TrailSegment, 0, len(report.Segments)),
		Difficulty: &report.Difficulty,
	}
	if ok {
		detail.Geohash = spatial.Geohash(center, geohashPrecision)
	}
	for _, seg := range report.Segments {
		detail.Segments = append(detail.Segments, models.TrailSegment{SegmentSummary: seg})
	}
	return detail
}

// List returns a page of trail summaries
func (s *TrailService) List(ctx context.Context, filter models.TrailFilter) (*models.TrailsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	if filter.Near != "" && !spatial.IsGeohash(filter.Near) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGeohash, filter.Near)
	}

	trails, total, err := s.trailRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list trails: %w", err)
	}

	return &models.TrailsResponse{
		Data:       trails,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

// Get returns a trail with its segments and rating
func (s *TrailService) Get(ctx context.Context, name string) (*models.TrailDetail, error) {
	trail, err := s.getTrail(ctx, name)
	if err != nil {
		return nil, err
	}

	segments, err := s.trailRepo.GetSegments(ctx, trail.ID)
	if err != nil {
		return nil, err
	}

	difficulty, err := s.trailRepo.GetDifficulty(ctx, trail.ID)
	if err != nil {
		return nil, err
	}

	return &models.TrailDetail{Trail: *trail, Segments: segments, Difficulty: difficulty}, nil
}

// GetPath returns the stored coordinates of a trail for drawing
func (s *TrailService) GetPath(ctx context.Context, name string) (*models.TrailPath, error) {
	trail, err := s.getTrail(ctx, name)
	if err != nil {
		return nil, err
	}

	points, err := s.trailRepo.GetPoints(ctx, trail.ID)
	if err != nil {
		return nil, err
	}

	difficulty, err := s.trailRepo.GetDifficulty(ctx, trail.ID)
	if err != nil {
		return nil, err
	}

	coords := make([][3]float64, len(points))
	for i, p := range points {
		coords[i] = [3]float64{p.Longitude(), p.Latitude(), p.Elevation()}
	}

	return &models.TrailPath{
		Name:          trail.Name,
		Coordinates:   coords,
		Polyline:      trail.Polyline,
		LengthKm:      trail.LengthKm,
		MaxElevation:  trail.MaxElevation,
		MinElevation:  trail.MinElevation,
		ElevationGain: trail.ElevationGain,
		ElevationLoss: trail.ElevationLoss,
		Difficulty:    difficulty,
	}, nil
}

// Export writes a stored trail as GeoJSON or KML from its stored points and
// segments, without recomputing any metric
func (s *TrailService) Export(ctx context.Context, name string, format export.Format, w io.Writer) error {
	detail, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	points, err := s.trailRepo.GetPoints(ctx, detail.ID)
	if err != nil {
		return err
	}

	return export.Write(w, format, detail.Name, points, detail.SegmentSummaries())
}

// Delete removes a trail with everything attached to it
func (s *TrailService) Delete(ctx context.Context, name string) error {
	if err := s.trailRepo.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTrailNotFound, name)
		}
		return err
	}

	s.log.Info("deleted trail", zap.String("trail", name))
	return nil
}

func (s *TrailService) getTrail(ctx context.Context, name string) (*models.Trail, error) {
	trail, err := s.trailRepo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTrailNotFound, name)
	}
	return trail, err
}
