package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/pot-code/interview-prep/internal/apiclient"
)

type fakeAPI struct {
	limit     int
	statsErr  error
	searchedQ string
}

func (f *fakeAPI) DashboardStats(ctx context.Context) (*apiclient.DashboardStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &apiclient.DashboardStats{User: &apiclient.DashboardUser{Name: "Ada", Level: 3}}, nil
}

func (f *fakeAPI) Activity(ctx context.Context, limit int) (*apiclient.ActivityFeed, error) {
	f.limit = limit
	return &apiclient.ActivityFeed{}, nil
}

func (f *fakeAPI) GamificationStats(ctx context.Context) (*apiclient.GamificationStats, error) {
	return &apiclient.GamificationStats{Level: 3, TotalXP: 450}, nil
}

func (f *fakeAPI) Achievements(ctx context.Context) (*apiclient.Achievements, error) {
	return &apiclient.Achievements{}, nil
}

func (f *fakeAPI) Leaderboard(ctx context.Context) (*apiclient.Leaderboard, error) {
	return &apiclient.Leaderboard{}, nil
}

func (f *fakeAPI) ClaimReward(ctx context.Context, id int) (*apiclient.MessageResponse, error) {
	return &apiclient.MessageResponse{}, nil
}

func (f *fakeAPI) FAQs(ctx context.Context) (*apiclient.FAQs, error) {
	return &apiclient.FAQs{}, nil
}

func (f *fakeAPI) SearchFAQs(ctx context.Context, q string) (*apiclient.FAQSearch, error) {
	f.searchedQ = q
	return &apiclient.FAQSearch{}, nil
}

func TestOverview(t *testing.T) {
	api := &fakeAPI{}
	out, err := NewDashboardUseCase(api).Overview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out.Stats.User.Name != "Ada" || out.Gamification.TotalXP != 450 || out.Activities == nil {
		t.Fatalf("unexpected overview %+v", out)
	}
	if api.limit != ActivityLimit {
		t.Fatalf("activity limit %d", api.limit)
	}

	api.statsErr = errors.New("down")
	if _, err := NewDashboardUseCase(api).Overview(context.Background()); err == nil {
		t.Fatal("expected failure when one read fails")
	}
}

func TestSearchFAQs(t *testing.T) {
	api := &fakeAPI{}
	du := NewDashboardUseCase(api)
	if _, err := du.SearchFAQs(context.Background(), "   "); !errors.Is(err, ErrBlankQuery) {
		t.Fatalf("expected ErrBlankQuery, got %v", err)
	}
	du.SearchFAQs(context.Background(), " reset password ")
	if api.searchedQ != "reset password" {
		t.Fatalf("query not trimmed: %q", api.searchedQ)
	}
}
