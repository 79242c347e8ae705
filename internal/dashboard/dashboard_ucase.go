package dashboard

import (
	"context"
	"strings"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"go.elastic.co/apm"
	"golang.org/x/sync/errgroup"
)

// DashboardUseCaseImpl DashboardUseCase implementation
type DashboardUseCaseImpl struct {
	api API
}

var _ DashboardUseCase = &DashboardUseCaseImpl{}

// NewDashboardUseCase create a DashboardUseCase
func NewDashboardUseCase(api API) *DashboardUseCaseImpl {
	return &DashboardUseCaseImpl{api: api}
}

// Overview stats, recent activity and level progress fetched concurrently
func (du *DashboardUseCaseImpl) Overview(ctx context.Context) (*Overview, error) {
	span, ctx := apm.StartSpan(ctx, "DashboardUseCase.Overview", "service")
	defer span.End()

	var (
		out  = new(Overview)
		feed *apiclient.ActivityFeed
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats, err = du.api.DashboardStats(gctx)
		return
	})
	g.Go(func() (err error) {
		feed, err = du.api.Activity(gctx, ActivityLimit)
		return
	})
	g.Go(func() (err error) {
		out.Gamification, err = du.api.GamificationStats(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.Activities = feed.Activities
	if out.Activities == nil {
		out.Activities = []*apiclient.Activity{}
	}
	return out, nil
}

// Achievements implement DashboardUseCase
func (du *DashboardUseCaseImpl) Achievements(ctx context.Context) (*apiclient.Achievements, error) {
	span, ctx := apm.StartSpan(ctx, "DashboardUseCase.Achievements", "service")
	defer span.End()
	return du.api.Achievements(ctx)
}

// Leaderboard implement DashboardUseCase
func (du *DashboardUseCaseImpl) Leaderboard(ctx context.Context) (*apiclient.Leaderboard, error) {
	span, ctx := apm.StartSpan(ctx, "DashboardUseCase.Leaderboard", "service")
	defer span.End()
	return du.api.Leaderboard(ctx)
}

// Claim implement DashboardUseCase
func (du *DashboardUseCaseImpl) Claim(ctx context.Context, achievementID int) (*apiclient.MessageResponse, error) {
	span, ctx := apm.StartSpan(ctx, "DashboardUseCase.Claim", "service")
	defer span.End()
	return du.api.ClaimReward(ctx, achievementID)
}

// FAQs implement DashboardUseCase
func (du *DashboardUseCaseImpl) FAQs(ctx context.Context) (*apiclient.FAQs, error) {
	span, ctx := apm.StartSpan(ctx, "DashboardUseCase.FAQs", "service")
	defer span.End()
	return du.api.FAQs(ctx)
}

// SearchFAQs implement DashboardUseCase
func (du *DashboardUseCaseImpl) SearchFAQs(ctx context.Context, q string) (*apiclient.FAQSearch, error) {
	span, ctx := apm.StartSpan(ctx, "DashboardUseCase.SearchFAQs", "service")
	defer span.End()

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrBlankQuery
	}
	return du.api.SearchFAQs(ctx, q)
}
