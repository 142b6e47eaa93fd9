package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"movie-storefront/internal/apperr"
	"movie-storefront/internal/data/entity"
	"movie-storefront/pkg/utils"

	"go.uber.org/zap"
)

// MovieService reads the catalog feed: one JSON array of movie records. The
// fetch has a bounded timeout and a failed fetch is a recoverable error, not
// a hang; the last good catalog keeps serving while the feed is down.
type MovieService interface {
	List(ctx context.Context) ([]entity.Movie, error)
	FindByID(ctx context.Context, movieID int) (*entity.Movie, error)
}

type movieService struct {
	url    string
	client *http.Client
	log    *zap.Logger

	mu     sync.Mutex
	cached []entity.Movie
}

func NewMovieService(cfg *utils.Config, log *zap.Logger) MovieService {
	timeout := time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &movieService{
		url:    cfg.Catalog.URL,
		client: &http.Client{Timeout: timeout},
		log:    log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) List(ctx context.Context) ([]entity.Movie, error) {
	movies, err := s.fetch(ctx)
	if err != nil {
		s.mu.Lock()
		cached := s.cached
		s.mu.Unlock()

		if cached != nil {
			s.log.Warn("Catalog fetch failed, serving cached catalog", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.cached = movies
	s.mu.Unlock()

	return movies, nil
}

func (s *movieService) FindByID(ctx context.Context, movieID int) (*entity.Movie, error) {
	movies, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range movies {
		if movies[i].ID == movieID {
			return &movies[i], nil
		}
	}
	return nil, &apperr.NotFoundError{Resource: "movie", ID: fmt.Sprintf("%d", movieID)}
}

func (s *movieService) fetch(ctx context.Context) ([]entity.Movie, error) {
	if s.url == "" {
		return nil, fmt.Errorf("catalog URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		s.log.Error("Catalog fetch failed", zap.Error(err), zap.String("url", s.url))
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", res.StatusCode)
	}

	var movies []entity.Movie
	if err := json.NewDecoder(res.Body).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	s.log.Debug("Catalog fetched", zap.Int("movies", len(movies)))
	return movies, nil
}
