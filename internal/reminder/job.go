package reminder

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spring-sisters/spring-backend/internal/logger"
	"github.com/spring-sisters/spring-backend/internal/notify"
	"github.com/spring-sisters/spring-backend/internal/profile/domain"
	"github.com/spring-sisters/spring-backend/internal/reorder"
	"github.com/spring-sisters/spring-backend/internal/whisper"
)

type Profiles interface {
	PushTargets(ctx context.Context) ([]domain.PushTarget, error)
	Update(ctx context.Context, userID string, req domain.UpdateRequest) (*domain.Profile, error)
}

// Whispers is the slice of the whisper service the sweep uses.
type Whispers interface {
	Peek(ctx context.Context, userID string, in whisper.Input) (*whisper.Whisper, error)
	MarkShown(ctx context.Context, userID string, c whisper.Category, dateKey string) error
}

type Reorders interface {
	ReorderCandidates(ctx context.Context, userID string, now time.Time) ([]reorder.Candidate, error)
}

// Result counts what one sweep did.
type Result struct {
	Targets int
	Sent    int
	Skipped int
	Failed  int
}

// ReorderJob pushes the reorder whisper to every user with a device token
// and a product running low. A push counts as the day's reorder whisper,
// so the app will not show it again.
type ReorderJob struct {
	profiles    Profiles
	reorders    Reorders
	whispers    Whispers
	sender      notify.Sender
	parallelism int
}

func NewReorderJob(profiles Profiles, reorders Reorders, whispers Whispers, sender notify.Sender, parallelism int) *ReorderJob {
	if parallelism <= 0 {
		parallelism = 4
	}
	return &ReorderJob{
		profiles:    profiles,
		reorders:    reorders,
		whispers:    whispers,
		sender:      sender,
		parallelism: parallelism,
	}
}

// Run sweeps once. Per-user failures are logged and counted; only a failure
// to list targets is returned.
func (j *ReorderJob) Run(ctx context.Context, now time.Time) (Result, error) {
	targets, err := j.profiles.PushTargets(ctx)
	if err != nil {
		return Result{}, err
	}

	var sent, skipped, failed int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.parallelism)

	for _, t := range targets {
		t := t
		g.Go(func() error {
			ok, err := j.remind(gctx, t, now)
			switch {
			case err != nil:
				atomic.AddInt64(&failed, 1)
				logger.NewLogger(gctx).LogErrorf("reorder_remind", "user_id=%s: %v", t.UserID, err)
			case ok:
				atomic.AddInt64(&sent, 1)
			default:
				atomic.AddInt64(&skipped, 1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Targets: len(targets),
		Sent:    int(sent),
		Skipped: int(skipped),
		Failed:  int(failed),
	}, ctx.Err()
}

func (j *ReorderJob) remind(ctx context.Context, t domain.PushTarget, now time.Time) (bool, error) {
	candidates, err := j.reorders.ReorderCandidates(ctx, t.UserID, now)
	if err != nil {
		return false, err
	}
	if len(candidates) == 0 {
		return false, nil
	}

	w, err := j.whispers.Peek(ctx, t.UserID, whisper.Input{
		Today:      whisper.DateKey(now),
		Candidates: candidates,
	})
	if err != nil {
		return false, err
	}
	if w == nil || w.Category != whisper.CategoryReorder {
		return false, nil
	}

	err = j.sender.Send(ctx, notify.Push{
		Token: t.PushToken,
		Title: w.Title,
		Body:  w.Message,
		Data:  map[string]string{"category": string(w.Category), "date": w.DateKey},
	})
	if errors.Is(err, notify.ErrInvalidToken) {
		empty := ""
		if _, uerr := j.profiles.Update(ctx, t.UserID, domain.UpdateRequest{PushToken: &empty}); uerr != nil {
			return false, uerr
		}
		logger.NewLogger(ctx).LogWarnf("reorder_remind", "dropped stale push token for user_id=%s", t.UserID)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := j.whispers.MarkShown(ctx, t.UserID, w.Category, w.DateKey); err != nil {
		return true, err
	}
	return true, nil
}
