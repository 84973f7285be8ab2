package terminal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/advisory"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/cache"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/market"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/metrics"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/news"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/resolver"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/session"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/strength"
)

const snapshotKey = "fxterminal:snapshot"

var ErrUnknownPair = errors.New("pair is not one of the supported majors")

type QuoteFetcher interface {
	Fetch(ctx context.Context) market.Result
}

type Advisor interface {
	Analyze(ctx context.Context, req advisory.Request) (*models.Advisory, error)
}

type Options struct {
	SnapshotTTL   time.Duration // live snapshots
	FallbackTTL   time.Duration // snapshots built from fallback quotes
	NewsTimeout   time.Duration
	DefaultAPIKey string
	DefaultPair   string
}

type Deps struct {
	Quotes   QuoteFetcher
	News     news.Source
	Advisor  Advisor
	Resolver *resolver.Resolver
	Sessions *session.Classifier
	Store    cache.Store
	Metrics  *metrics.Recorder
}

// Service owns the terminal's state: the latest snapshot, the selected pair
// and the latest advisory.
type Service struct {
	deps Deps
	opts Options
	now  func() time.Time

	mu    sync.RWMutex
	state models.State

	refreshMu sync.Mutex
}

func NewService(deps Deps, opts Options) *Service {
	if opts.DefaultPair == "" {
		opts.DefaultPair = "EURUSD"
	}
	return &Service{
		deps:  deps,
		opts:  opts,
		now:   time.Now,
		state: models.State{SelectedPair: opts.DefaultPair},
	}
}

// Returns the cached snapshot, building a fresh one when the cache is empty or expired.
func (s *Service) Snapshot(ctx context.Context) (models.Snapshot, error) {
	if snap, ok := s.cached(ctx); ok {
		return snap, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller may have refreshed while we waited.
	if snap, ok := s.cached(ctx); ok {
		return snap, nil
	}
	return s.refreshLocked(ctx)
}

// Drops the cached snapshot and advisory, then rebuilds the snapshot.
func (s *Service) Reset(ctx context.Context) (models.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if err := s.deps.Store.Delete(ctx, snapshotKey); err != nil {
		log.Warn().Err(err).Msg("failed to clear snapshot cache")
	}

	s.mu.Lock()
	s.state.Snapshot = nil
	s.state.Advisory = nil
	s.mu.Unlock()

	return s.refreshLocked(ctx)
}

// Rebuilds the snapshot regardless of cache state.
func (s *Service) Refresh(ctx context.Context) (models.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Service) refreshLocked(ctx context.Context) (models.Snapshot, error) {
	var (
		quotes   market.Result
		events   []models.NewsEvent
		newsLive bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		quotes = s.deps.Quotes.Fetch(gctx)
		return nil
	})

	g.Go(func() error {
		events, newsLive = s.fetchNews(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, fmt.Errorf("refresh snapshot: %w", err)
	}

	snap := Build(quotes, events, newsLive, s.deps.Resolver, s.now())

	if !snap.Strength.Live {
		log.Warn().Strs("missing", snap.Strength.Missing).Msg("dollar index unavailable, serving fallback strength")
		s.deps.Metrics.RecordFallback("quotes")
	} else if len(snap.Strength.Missing) > 0 {
		log.Warn().Strs("missing", snap.Strength.Missing).Msg("some pairs unavailable, scored as neutral")
	}
	s.deps.Metrics.RecordStrength(snap.Strength)

	ttl := s.opts.SnapshotTTL
	if !snap.Strength.Live {
		ttl = s.opts.FallbackTTL
	}
	if ttl > 0 {
		if b, err := json.Marshal(snap); err != nil {
			log.Warn().Err(err).Msg("failed to encode snapshot")
		} else if err := s.deps.Store.Set(ctx, snapshotKey, b, ttl); err != nil {
			log.Warn().Err(err).Msg("failed to cache snapshot")
		}
	}

	s.mu.Lock()
	s.state.Snapshot = &snap
	s.mu.Unlock()

	log.Info().
		Bool("live", snap.Strength.Live).
		Bool("news_live", snap.NewsLive).
		Str("signal", string(snap.Signal.Action)+" "+snap.Signal.Pair).
		Msg("snapshot refreshed")

	return snap, nil
}

func (s *Service) cached(ctx context.Context) (models.Snapshot, bool) {
	b, ok, err := s.deps.Store.Get(ctx, snapshotKey)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot cache read failed")
		return models.Snapshot{}, false
	}
	if !ok {
		return models.Snapshot{}, false
	}

	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		log.Warn().Err(err).Msg("discarding undecodable cached snapshot")
		return models.Snapshot{}, false
	}

	s.mu.Lock()
	s.state.Snapshot = &snap
	s.mu.Unlock()
	return snap, true
}

func (s *Service) fetchNews(ctx context.Context) ([]models.NewsEvent, bool) {
	if s.opts.NewsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.NewsTimeout)
		defer cancel()
	}

	start := time.Now()
	events, err := s.deps.News.Today(ctx)
	s.deps.Metrics.RecordUpstream("news", err == nil, time.Since(start).Seconds())

	if err != nil {
		log.Warn().Err(err).Msg("news feed unavailable, serving placeholder")
		s.deps.Metrics.RecordFallback("news")
		return news.Placeholder(news.UnavailablePlaceholder), false
	}
	if len(events) == 0 {
		return news.Placeholder(news.NoHighImpactPlaceholder), true
	}
	return events, true
}

func (s *Service) Sessions(t time.Time) models.SessionStatus {
	return s.deps.Sessions.Classify(t)
}

func (s *Service) SessionWindows() []models.SessionWindow {
	return s.deps.Sessions.Windows()
}

func (s *Service) SelectPair(pair string) error {
	if err := validPair(pair); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.SelectedPair = pair
	s.mu.Unlock()
	return nil
}

func validPair(pair string) error {
	if !slices.Contains(models.MajorPairs, pair) {
		return fmt.Errorf("%w: %s", ErrUnknownPair, pair)
	}
	return nil
}

// Runs an advisory for pair (the selected pair when empty). A nil advisory with
// a nil error means the service could not produce one; only a missing
// credential or an unknown pair is returned as an error.
func (s *Service) Analyze(ctx context.Context, pair, apiKey string) (*models.Advisory, error) {
	if pair == "" {
		pair = s.State().SelectedPair
	}
	if err := validPair(pair); err != nil {
		return nil, err
	}

	key := apiKey
	if key == "" {
		key = s.opts.DefaultAPIKey
	}
	if key == "" {
		s.deps.Metrics.RecordAdvisory("missing_credential")
		return nil, advisory.ErrMissingCredential
	}

	s.mu.Lock()
	s.state.SelectedPair = pair
	s.mu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	adv, err := s.deps.Advisor.Analyze(ctx, advisory.Request{
		Pair:     pair,
		Strength: snap.Strength.Scores,
		Index:    snap.Strength.Index,
		APIKey:   key,
	})
	s.deps.Metrics.RecordUpstream("advisory", err == nil, time.Since(start).Seconds())

	switch {
	case errors.Is(err, advisory.ErrMissingCredential):
		s.deps.Metrics.RecordAdvisory("missing_credential")
		return nil, err
	case err != nil:
		log.Warn().Err(err).Str("pair", pair).Msg("no advisory available")
		s.deps.Metrics.RecordAdvisory("unavailable")
		adv = nil
	default:
		s.deps.Metrics.RecordAdvisory("ok")
	}

	s.mu.Lock()
	s.state.Advisory = adv
	s.mu.Unlock()

	return adv, nil
}

// Copy of the current state.
func (s *Service) State() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Build assembles a snapshot from one fetch cycle. It has no side effects.
func Build(quotes market.Result, events []models.NewsEvent, newsLive bool, r *resolver.Resolver, now time.Time) models.Snapshot {
	st := strength.Compute(quotes.Quotes, now)

	return models.Snapshot{
		Strength:  st,
		Ranked:    strength.Rank(st.Scores),
		Bias:      strength.Bias(st.Scores),
		Signal:    r.Resolve(st.Scores, quotes.Bars),
		Pairs:     strength.PairChanges(quotes.Quotes, models.MajorPairs),
		News:      events,
		NewsLive:  newsLive,
		FetchedAt: now,
	}
}
