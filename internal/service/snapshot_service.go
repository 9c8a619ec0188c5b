package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/repository/storage"
)

const (
	SnapshotThumbnailWidth = 320
	SnapshotURLExpiry      = 24 * time.Hour
	snapshotPrefix         = "snapshots"
)

// ChartImage is one stored chart with its thumbnail
type ChartImage struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Snapshot is a set of charts captured at one point in time
type Snapshot struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Charts    []ChartImage `json:"charts"`
}

// SnapshotService renders the report charts and stores them for sharing
type SnapshotService struct {
	charts  *ChartService
	storage storage.ObjectStore
	now     Clock
}

// NewSnapshotService creates a new SnapshotService. A nil store disables
// snapshots.
func NewSnapshotService(charts *ChartService, store storage.ObjectStore) *SnapshotService {
	return &SnapshotService{
		charts:  charts,
		storage: store,
		now:     time.Now,
	}
}

// SetClock overrides the time source
func (s *SnapshotService) SetClock(clock Clock) {
	s.now = clock
}

// IsEnabled indicates whether snapshots can be stored
func (s *SnapshotService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// CreateSnapshot renders the trend and expense charts, uploads each with a
// thumbnail and returns presigned links. Charts without data are skipped.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, months int, period string) (*Snapshot, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrStorageDisabled
	}

	renders := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"trend", func() ([]byte, error) { return s.charts.RenderTrendChart(ctx, months) }},
		{"expenses", func() ([]byte, error) { return s.charts.RenderExpenseChart(ctx, period) }},
	}

	now := s.now().UTC()
	snapshot := &Snapshot{
		ID:        uuid.New().String(),
		CreatedAt: now,
		ExpiresAt: now.Add(SnapshotURLExpiry),
		Charts:    []ChartImage{},
	}

	var uploaded []string
	for _, r := range renders {
		data, err := r.render()
		if errors.Is(err, domain.ErrNoChartData) {
			continue
		}
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, err
		}

		chartImage, paths, err := s.store(ctx, snapshot.ID, r.name, data)
		uploaded = append(uploaded, paths...)
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, err
		}
		snapshot.Charts = append(snapshot.Charts, *chartImage)
	}

	if len(snapshot.Charts) == 0 {
		return nil, domain.ErrNoChartData
	}
	return snapshot, nil
}

// store uploads the full chart and its thumbnail. It returns the object paths
// written so far even on failure.
func (s *SnapshotService) store(ctx context.Context, snapshotID, name string, data []byte) (*ChartImage, []string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s chart: %w", name, err)
	}
	thumb := imaging.Resize(img, SnapshotThumbnailWidth, 0, imaging.Lanczos)

	var thumbBuf bytes.Buffer
	if err := png.Encode(&thumbBuf, thumb); err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s thumbnail: %w", name, err)
	}

	variants := []struct {
		path string
		data []byte
	}{
		{fmt.Sprintf("%s/%s/%s.png", snapshotPrefix, snapshotID, name), data},
		{fmt.Sprintf("%s/%s/%s_thumb.png", snapshotPrefix, snapshotID, name), thumbBuf.Bytes()},
	}

	var paths []string
	urls := make([]string, 0, len(variants))
	for _, v := range variants {
		path, err := s.storage.Upload(ctx, v.path, bytes.NewReader(v.data), "image/png", int64(len(v.data)))
		if err != nil {
			return nil, paths, fmt.Errorf("failed to upload %s: %w", v.path, err)
		}
		paths = append(paths, path)

		url, err := s.storage.GeneratePresignedURL(ctx, path, SnapshotURLExpiry)
		if err != nil {
			return nil, paths, err
		}
		urls = append(urls, url)
	}

	return &ChartImage{Name: name, URL: urls[0], ThumbnailURL: urls[1]}, paths, nil
}

// cleanup removes objects uploaded during a failed snapshot
func (s *SnapshotService) cleanup(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := s.storage.Delete(ctx, path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove partial snapshot object")
		}
	}
}
