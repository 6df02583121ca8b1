package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/repository"
)

const showcaseCacheKey = "showcase:public"

// ShowcaseService serves the unauthenticated best-practicals listing. The
// list is cached in Redis and hidden entirely while any department runs in
// exam mode.
type ShowcaseService interface {
	List(ctx context.Context) (dto.ShowcaseResponse, error)
	Invalidate(ctx context.Context)
}

type showcaseService struct {
	submissions repository.SubmissionRepository
	exams       repository.ExamModeRepository
	cache       *redis.Client
	ttl         time.Duration
	logger      zerolog.Logger
}

// NewShowcaseService constructs a ShowcaseService instance. cache may be
// nil; every lookup then hits the database.
func NewShowcaseService(submissions repository.SubmissionRepository, exams repository.ExamModeRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ShowcaseService {
	return &showcaseService{
		submissions: submissions,
		exams:       exams,
		cache:       cache,
		ttl:         ttl,
		logger:      logger.With().Str("component", "showcase_service").Logger(),
	}
}

// List returns approved submissions on showcased practicals. During exam
// mode it returns an empty list without touching the cache.
func (s *showcaseService) List(ctx context.Context) (dto.ShowcaseResponse, error) {
	enabled, err := s.exams.AnyEnabled(ctx)
	if err != nil {
		return dto.ShowcaseResponse{}, err
	}
	if enabled {
		return dto.ShowcaseResponse{ExamModeEnabled: true, Submissions: []dto.SubmissionResponse{}}, nil
	}

	if cached, ok := s.fromCache(ctx); ok {
		return dto.ShowcaseResponse{Submissions: cached}, nil
	}

	submissions, err := s.submissions.ListPublicApproved(ctx)
	if err != nil {
		return dto.ShowcaseResponse{}, err
	}

	responses := dto.NewSubmissionResponseSlice(submissions)
	s.store(ctx, responses)

	return dto.ShowcaseResponse{Submissions: responses}, nil
}

// Invalidate drops the cached listing. Best effort.
func (s *showcaseService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, showcaseCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate showcase cache")
	}
}

func (s *showcaseService) fromCache(ctx context.Context) ([]dto.SubmissionResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, showcaseCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("showcase cache read failed")
		}
		return nil, false
	}

	var responses []dto.SubmissionResponse
	if err := json.Unmarshal(payload, &responses); err != nil {
		s.logger.Warn().Err(err).Msg("showcase cache payload corrupt")
		return nil, false
	}
	return responses, true
}

func (s *showcaseService) store(ctx context.Context, responses []dto.SubmissionResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(responses)
	if err != nil {
		s.logger.Warn().Err(err).Msg("showcase cache marshal failed")
		return
	}
	if err := s.cache.Set(ctx, showcaseCacheKey, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("showcase cache write failed")
	}
}
