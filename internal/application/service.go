package application

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/ports"
)

type Config struct {
	ServiceName    string
	CacheTTL       time.Duration
	CacheKeyPrefix string
}

type Service struct {
	cfg       Config
	cache     ports.Cache
	upstream  ports.UpstreamClient
	publisher ports.EventPublisher
	logger    *slog.Logger
	nowFn     func() time.Time
}

type Dependencies struct {
	Config    Config
	Cache     ports.Cache
	Upstream  ports.UpstreamClient
	Publisher ports.EventPublisher
	Logger    *slog.Logger
	// Now supplies the clock; defaults to the wall clock. Expiry checks and
	// cache timestamps depend on it advancing between calls.
	Now func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "M12-Learner-Context-Service"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.CacheKeyPrefix == "" {
		cfg.CacheKeyPrefix = "learner_snapshot:"
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		cfg:       cfg,
		cache:     deps.Cache,
		upstream:  deps.Upstream,
		publisher: deps.Publisher,
		logger:    logger,
		nowFn:     nowFn,
	}
}

// cacheKey hashes the user id so arbitrary upstream identifiers produce
// fixed-length, delimiter-free keys.
func (s *Service) cacheKey(userID string) string {
	sum := md5.Sum([]byte(userID))
	return s.cfg.CacheKeyPrefix + hex.EncodeToString(sum[:])
}

// summaryKey addresses the lightweight projection stored beside the full
// snapshot entry.
func (s *Service) summaryKey(userID string) string {
	return s.cacheKey(userID) + ":summary"
}
