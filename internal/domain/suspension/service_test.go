package suspension_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/whispr/trust-api/internal/domain/suspension"
)

type fakeRepo struct {
	records map[uuid.UUID]*suspension.Suspension
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[uuid.UUID]*suspension.Suspension)}
}

func (f *fakeRepo) Create(_ context.Context, s *suspension.Suspension) error {
	cp := *s
	f.records[s.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*suspension.Suspension, error) {
	s, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, s *suspension.Suspension) error {
	cp := *s
	f.records[s.ID] = &cp
	return nil
}

func (f *fakeRepo) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]*suspension.Suspension, error) {
	var out []*suspension.Suspension
	for _, s := range f.records {
		if s.UserID == userID && s.IsActive {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*suspension.Suspension, error) {
	var out []*suspension.Suspension
	for _, s := range f.records {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]*suspension.Suspension, error) {
	var out []*suspension.Suspension
	for _, s := range f.records {
		if s.IsActive {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListDue(_ context.Context, now time.Time) ([]*suspension.Suspension, error) {
	var out []*suspension.Suspension
	for _, s := range f.records {
		if s.IsActive && s.EndDate.Before(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeReputation struct {
	adjustments map[uuid.UUID]int
}

func newFakeReputation() *fakeReputation {
	return &fakeReputation{adjustments: make(map[uuid.UUID]int)}
}

func (f *fakeReputation) ApplyAdjustment(_ context.Context, userID uuid.UUID, delta int, _ string) error {
	f.adjustments[userID] += delta
	return nil
}

func TestCreateWarningIsTransient(t *testing.T) {
	repo := newFakeRepo()
	rep := newFakeReputation()
	svc := suspension.NewService(repo, rep)

	userID := uuid.New()
	susp, err := svc.Create(context.Background(), &suspension.CreateRequest{
		UserID:      userID,
		Reason:      "first offense",
		Type:        suspension.TypeWarning,
		ModeratorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if susp.IsActive {
		t.Error("warning should not be active")
	}
	if len(repo.records) != 0 {
		t.Errorf("warning was persisted, records = %d", len(repo.records))
	}
	if rep.adjustments[userID] != 0 {
		t.Errorf("warning applied a penalty of %d", rep.adjustments[userID])
	}
}

func TestCreateTemporaryRequiresDuration(t *testing.T) {
	svc := suspension.NewService(newFakeRepo(), newFakeReputation())

	_, err := svc.Create(context.Background(), &suspension.CreateRequest{
		UserID: uuid.New(),
		Reason: "spam wave",
		Type:   suspension.TypeTemporary,
	})
	if !errors.Is(err, suspension.ErrDurationRequired) {
		t.Errorf("error = %v, want ErrDurationRequired", err)
	}
}

func TestCreatePermanentRejectsDuration(t *testing.T) {
	svc := suspension.NewService(newFakeRepo(), newFakeReputation())

	_, err := svc.Create(context.Background(), &suspension.CreateRequest{
		UserID:        uuid.New(),
		Reason:        "repeat offender",
		Type:          suspension.TypePermanent,
		DurationHours: 24,
	})
	if !errors.Is(err, suspension.ErrDurationNotAllowed) {
		t.Errorf("error = %v, want ErrDurationNotAllowed", err)
	}
}

func TestCreateTemporaryAppliesPenalty(t *testing.T) {
	repo := newFakeRepo()
	rep := newFakeReputation()
	svc := suspension.NewService(repo, rep)

	userID := uuid.New()
	susp, err := svc.Create(context.Background(), &suspension.CreateRequest{
		UserID:        userID,
		Reason:        "spam wave",
		Type:          suspension.TypeTemporary,
		DurationHours: 24,
		ModeratorID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !susp.IsActive {
		t.Error("temporary suspension should be active")
	}
	if susp.BanType != suspension.BanNoPosting {
		t.Errorf("ban type = %q, want no_posting", susp.BanType)
	}

	wantEnd := time.Now().Add(24 * time.Hour)
	if diff := susp.EndDate.Sub(wantEnd); diff < -time.Minute || diff > time.Minute {
		t.Errorf("end date %v not ~24h out", susp.EndDate)
	}
	if rep.adjustments[userID] != -10 {
		t.Errorf("penalty = %d, want -10", rep.adjustments[userID])
	}
}

func TestCreatePermanentHasFarFutureEnd(t *testing.T) {
	repo := newFakeRepo()
	rep := newFakeReputation()
	svc := suspension.NewService(repo, rep)

	userID := uuid.New()
	susp, err := svc.Create(context.Background(), &suspension.CreateRequest{
		UserID:      userID,
		Reason:      "repeat offender",
		Type:        suspension.TypePermanent,
		ModeratorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if susp.EndDate.Before(time.Now().AddDate(50, 0, 0)) {
		t.Errorf("permanent end date %v is not far-future", susp.EndDate)
	}
	if susp.BanType != suspension.BanHidden {
		t.Errorf("ban type = %q, want hidden", susp.BanType)
	}
	if rep.adjustments[userID] != -25 {
		t.Errorf("penalty = %d, want -25", rep.adjustments[userID])
	}
}

func TestAutomaticForLadder(t *testing.T) {
	cases := []struct {
		violations int
		wantType   suspension.Type
		wantHours  int
	}{
		{1, suspension.TypeWarning, 0},
		{2, suspension.TypeTemporary, 24},
		{3, suspension.TypeTemporary, 168},
		{4, suspension.TypePermanent, 0},
		{9, suspension.TypePermanent, 0},
	}

	for _, tc := range cases {
		svc := suspension.NewService(newFakeRepo(), newFakeReputation())

		susp, err := svc.AutomaticFor(context.Background(), uuid.New(), tc.violations, "escalation")
		if err != nil {
			t.Fatalf("AutomaticFor(%d): %v", tc.violations, err)
		}
		if susp.Type != tc.wantType {
			t.Errorf("AutomaticFor(%d) type = %q, want %q", tc.violations, susp.Type, tc.wantType)
		}
		if tc.wantHours > 0 {
			wantEnd := susp.StartDate.Add(time.Duration(tc.wantHours) * time.Hour)
			if !susp.EndDate.Equal(wantEnd) {
				t.Errorf("AutomaticFor(%d) end = %v, want %v", tc.violations, susp.EndDate, wantEnd)
			}
		}
	}
}

func TestReviewPermanentIsImmutable(t *testing.T) {
	repo := newFakeRepo()
	svc := suspension.NewService(repo, newFakeReputation())

	susp, err := svc.Create(context.Background(), &suspension.CreateRequest{
		UserID:      uuid.New(),
		Reason:      "repeat offender",
		Type:        suspension.TypePermanent,
		ModeratorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, action := range []string{"extend", "reduce"} {
		_, err := svc.Review(context.Background(), susp.ID, &suspension.ReviewRequest{
			Action:        action,
			DurationHours: 24,
		})
		if !errors.Is(err, suspension.ErrPermanentImmutable) {
			t.Errorf("Review(%s) on permanent error = %v, want ErrPermanentImmutable", action, err)
		}
	}

	// Removal is still allowed
	reviewed, err := svc.Review(context.Background(), susp.ID, &suspension.ReviewRequest{Action: "remove"})
	if err != nil {
		t.Fatalf("Review(remove): %v", err)
	}
	if reviewed.IsActive {
		t.Error("removed suspension still active")
	}
}

func TestReviewMakePermanent(t *testing.T) {
	repo := newFakeRepo()
	svc := suspension.NewService(repo, newFakeReputation())

	susp, err := svc.Create(context.Background(), &suspension.CreateRequest{
		UserID:        uuid.New(),
		Reason:        "spam wave",
		Type:          suspension.TypeTemporary,
		DurationHours: 24,
		ModeratorID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	reviewed, err := svc.Review(context.Background(), susp.ID, &suspension.ReviewRequest{Action: "make_permanent"})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if reviewed.Type != suspension.TypePermanent {
		t.Errorf("type = %q, want permanent", reviewed.Type)
	}
	if reviewed.BanType != suspension.BanHidden {
		t.Errorf("ban type = %q, want hidden", reviewed.BanType)
	}
}

func TestIsUserSuspended(t *testing.T) {
	repo := newFakeRepo()
	svc := suspension.NewService(repo, newFakeReputation())
	userID := uuid.New()

	if svc.IsUserSuspended(context.Background(), userID).Suspended {
		t.Error("fresh user reported as suspended")
	}

	if _, err := svc.Create(context.Background(), &suspension.CreateRequest{
		UserID:        userID,
		Reason:        "spam wave",
		Type:          suspension.TypeTemporary,
		DurationHours: 24,
		ModeratorID:   uuid.New(),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := svc.IsUserSuspended(context.Background(), userID)
	if !status.Suspended {
		t.Error("suspended user reported as free")
	}
	if !status.NonPermanent {
		t.Error("temporary suspension should be non-permanent")
	}
}

func TestExpireDueGrantsRestoration(t *testing.T) {
	repo := newFakeRepo()
	rep := newFakeReputation()
	svc := suspension.NewService(repo, rep)
	userID := uuid.New()

	past := &suspension.Suspension{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      suspension.TypeTemporary,
		BanType:   suspension.BanNoPosting,
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-time.Hour),
		IsActive:  true,
	}
	repo.records[past.ID] = past

	expired, err := svc.ExpireDue(context.Background())
	if err != nil {
		t.Fatalf("ExpireDue: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}
	if repo.records[past.ID].IsActive {
		t.Error("due suspension still active")
	}
	if rep.adjustments[userID] != 5 {
		t.Errorf("restoration bonus = %d, want 5", rep.adjustments[userID])
	}
}
