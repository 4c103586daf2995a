// Package reminder sends each owner a daily digest of overdue tasks and
// tasks due today over the websocket feed.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukerupert/tidyhouse/internal/schedule"
	"github.com/dukerupert/tidyhouse/internal/websocket"
)

// Source supplies the owners and their dashboards.
type Source interface {
	Owners(ctx context.Context) ([]string, error)
	Dashboard(ctx context.Context, ownerID string, now time.Time) (schedule.Dashboard, error)
}

type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

// Digest summarizes what needs doing for one owner on one day.
type Digest struct {
	OwnerID  string   `json:"-"`
	Overdue  []string `json:"overdue"`
	DueToday []string `json:"due_today"`
	Body     string   `json:"body"`
}

// BuildDigest collects task names from d. It reports false when there is
// nothing to remind about.
func BuildDigest(ownerID string, d schedule.Dashboard) (Digest, bool) {
	dg := Digest{OwnerID: ownerID, Overdue: []string{}, DueToday: []string{}}
	for _, it := range d.All {
		switch {
		case it.Status == schedule.StatusOverdue:
			dg.Overdue = append(dg.Overdue, it.Task.Name)
		case it.DaysLeft == 0:
			dg.DueToday = append(dg.DueToday, it.Task.Name)
		}
	}
	if len(dg.Overdue) == 0 && len(dg.DueToday) == 0 {
		return dg, false
	}
	dg.Body = summary(dg)
	return dg, true
}

func summary(dg Digest) string {
	if len(dg.Overdue) == 0 && len(dg.DueToday) == 1 {
		return "Task due today: " + dg.DueToday[0]
	}
	var parts []string
	if n := len(dg.Overdue); n > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", n))
	}
	if n := len(dg.DueToday); n > 0 {
		parts = append(parts, fmt.Sprintf("%d due today", n))
	}
	return "Tasks needing attention: " + strings.Join(parts, ", ")
}

// Scheduler runs the digest on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	src     Source
	hub     Broadcaster
	clock   func() time.Time
	loc     *time.Location
	timeout time.Duration
	logger  *slog.Logger
}

// NewScheduler builds a scheduler whose runs evaluate dashboards at clock()
// in loc.
func NewScheduler(src Source, hub Broadcaster, clock func() time.Time, loc *time.Location, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		src:     src,
		hub:     hub,
		clock:   clock,
		loc:     loc,
		timeout: time.Minute,
		logger:  logger.With("component", "reminder"),
	}
}

// ScheduleDaily registers the digest to run every day at hhmm ("HH:MM") in
// the scheduler's location.
func (s *Scheduler) ScheduleDaily(hhmm string) (cron.EntryID, error) {
	spec, err := buildDailySpec(hhmm)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, s.run)
}

// run is the cron job body.
func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.RunOnce(ctx, s.clock().In(s.loc)); err != nil {
		s.logger.Error("reminder run failed", "error", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce builds and broadcasts the digest for every owner as of now and
// returns the digests that were sent. A failing owner is logged and skipped.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) ([]Digest, error) {
	owners, err := s.src.Owners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	var sent []Digest
	for _, owner := range owners {
		d, err := s.src.Dashboard(ctx, owner, now)
		if err != nil {
			s.logger.Warn("reminder dashboard failed", "owner", owner, "error", err)
			continue
		}
		dg, ok := BuildDigest(owner, d)
		if !ok {
			continue
		}

		if s.hub != nil {
			s.hub.Broadcast(websocket.NewMessage(owner, "reminder", "digest", "", map[string]any{
				"overdue":   dg.Overdue,
				"due_today": dg.DueToday,
				"body":      dg.Body,
			}))
		}
		s.logger.Info("reminder sent", "owner", owner, "overdue", len(dg.Overdue), "due_today", len(dg.DueToday))
		sent = append(sent, dg)
	}
	return sent, nil
}

func buildDailySpec(hhmm string) (string, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", hhmm)
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
