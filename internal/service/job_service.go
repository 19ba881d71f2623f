package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"parkspotter-admin/internal/entities"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/repository"
	"parkspotter-admin/internal/session"
)

const (
	jobTimeout     = 2 * time.Minute
	pruneSchedule  = "@every 10m"
	digestOwnerCap = 200
)

// Broadcaster pushes a value to every connected live client.
type Broadcaster interface {
	Broadcast(v any)
	Clients() int
}

// SessionPruner removes expired sessions and reports how many went.
type SessionPruner func(ctx context.Context) (int64, error)

type JobConfig struct {
	AlertEmail    string
	ServiceToken  string
	ExpirySpec    string
	RefreshSpec   string
	PruneSessions SessionPruner
	// Views and SessionTTL let the prune job drop list state of sessions idle longer than a
	// session can live.
	Views      *listing.ViewStore
	SessionTTL time.Duration
}

type JobService struct {
	cfg     JobConfig
	dash    *DashboardService
	notices repository.NoticeRepository
	sender  *SenderService
	hub     Broadcaster
	log     *slog.Logger
}

func NewJobService(cfg JobConfig, dash *DashboardService, notices repository.NoticeRepository, sender *SenderService, hub Broadcaster, log *slog.Logger) *JobService {
	if log == nil {
		log = slog.Default()
	}
	return &JobService{cfg: cfg, dash: dash, notices: notices, sender: sender, hub: hub, log: log}
}

const jobSessionID = "cron"

func (s *JobService) serviceSession() session.Session {
	return session.Session{ID: jobSessionID, Token: s.cfg.ServiceToken, Role: session.RoleAdmin, UserID: jobSessionID}
}

// SendExpiryDigest emails the alert address about subscriptions ending within a week.
// Each owner's subscription period is reported once.
func (s *JobService) SendExpiryDigest(ctx context.Context) error {
	if s.cfg.AlertEmail == "" || s.cfg.ServiceToken == "" {
		s.log.Debug("expiry digest disabled: alert email or service token not set")
		return nil
	}
	snap := s.dash.Res.ParkOwners.Load(ctx, jobSessionID, s.cfg.ServiceToken)
	if snap.Degraded {
		return fmt.Errorf("cron job: park owners unavailable: %w", snap.Err)
	}

	soon := ExpiringSoon(snap.Value, s.dash.now())
	if len(soon) == 0 {
		s.log.Info("cron job: no subscriptions ending soon")
		return nil
	}
	candidates := make([]repository.ExpiryNotice, len(soon))
	for i, o := range soon {
		candidates[i] = repository.ExpiryNotice{OwnerID: o.ID, EndDate: o.SubscriptionEndDate}
	}
	unsent, err := s.notices.Unsent(ctx, candidates)
	if err != nil {
		return fmt.Errorf("cron job: failed to read sent notices: %w", err)
	}
	if len(unsent) == 0 {
		return nil
	}
	if len(unsent) > digestOwnerCap {
		unsent = unsent[:digestOwnerCap]
	}

	pending := make(map[int]bool, len(unsent))
	for _, n := range unsent {
		pending[n.OwnerID] = true
	}
	var owners []entities.ParkOwner
	for _, o := range soon {
		if pending[o.ID] {
			owners = append(owners, o)
		}
	}

	if err := s.sender.SendExpiryDigest(ctx, s.cfg.AlertEmail, owners); err != nil {
		return fmt.Errorf("cron job: failed to send expiry digest: %w", err)
	}
	if err := s.notices.MarkSent(ctx, unsent); err != nil {
		return fmt.Errorf("cron job: failed to record sent notices: %w", err)
	}
	s.log.Info("cron job: expiry digest sent", slog.Int("owners", len(owners)))
	return nil
}

// RefreshOverview rebuilds the overview with the service token and pushes it to live clients.
// Without a service token there is nothing to refresh with and clients keep their first view.
func (s *JobService) RefreshOverview(ctx context.Context) {
	if s.hub == nil || s.hub.Clients() == 0 {
		return
	}
	if s.cfg.ServiceToken == "" {
		s.log.Debug("overview refresh disabled: service token not set")
		return
	}
	s.hub.Broadcast(s.dash.Overview(ctx, s.serviceSession()))
}

// Prune removes expired sessions from the store, then drops list state and cached snapshots
// of sessions idle for longer than the session TTL.
func (s *JobService) Prune(ctx context.Context) {
	if s.cfg.PruneSessions != nil {
		n, err := s.cfg.PruneSessions(ctx)
		if err != nil {
			s.log.Error("cron job: session prune failed", slog.Any("error", err))
		} else if n > 0 {
			s.log.Info("cron job: expired sessions removed", slog.Int64("count", n))
		}
	}
	if s.cfg.SessionTTL <= 0 {
		return
	}
	before := s.dash.now().Add(-s.cfg.SessionTTL)
	views := 0
	if s.cfg.Views != nil {
		views = s.cfg.Views.PruneIdle(before)
	}
	snaps := s.dash.Res.PruneIdle(before)
	if views+snaps > 0 {
		s.log.Info("cron job: idle session state dropped", slog.Int("views", views), slog.Int("snapshots", snaps))
	}
}

func (s *JobService) run(name string, fn func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.log.Error("cron job failed", slog.String("job", name), slog.Any("error", err))
		}
	}
}

// Scheduler registers the jobs on a cron that skips a run while the previous one is still going.
// The caller starts and stops it.
func (s *JobService) Scheduler() (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := c.AddFunc(s.cfg.ExpirySpec, s.run("expiry-digest", s.SendExpiryDigest)); err != nil {
		return nil, fmt.Errorf("schedule expiry digest %q: %w", s.cfg.ExpirySpec, err)
	}
	refresh := func(ctx context.Context) error { s.RefreshOverview(ctx); return nil }
	if _, err := c.AddFunc(s.cfg.RefreshSpec, s.run("overview-refresh", refresh)); err != nil {
		return nil, fmt.Errorf("schedule overview refresh %q: %w", s.cfg.RefreshSpec, err)
	}
	prune := func(ctx context.Context) error { s.Prune(ctx); return nil }
	if _, err := c.AddFunc(pruneSchedule, s.run("session-prune", prune)); err != nil {
		return nil, fmt.Errorf("schedule session prune: %w", err)
	}
	return c, nil
}
