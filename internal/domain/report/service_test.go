package report_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/whispr/trust-api/internal/domain/report"
	"github.com/whispr/trust-api/internal/domain/reputation"
	"github.com/whispr/trust-api/internal/domain/suspension"
	"github.com/whispr/trust-api/internal/domain/whisper"
)

type fakeRepo struct {
	reports       map[uuid.UUID]*report.Report
	whisperCounts map[uuid.UUID]int
	commentCounts map[uuid.UUID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reports:       make(map[uuid.UUID]*report.Report),
		whisperCounts: make(map[uuid.UUID]int),
		commentCounts: make(map[uuid.UUID]int),
	}
}

func (f *fakeRepo) Create(_ context.Context, rep *report.Report) error {
	cp := *rep
	f.reports[rep.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*report.Report, error) {
	rep, ok := f.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *rep
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, rep *report.Report) error {
	cp := *rep
	f.reports[rep.ID] = &cp
	return nil
}

func (f *fakeRepo) GetLiveByTarget(_ context.Context, reporterID, whisperID uuid.UUID, commentID uuid.NullUUID, category report.Category) (*report.Report, error) {
	for _, rep := range f.reports {
		if rep.ReporterID == reporterID && rep.WhisperID == whisperID &&
			rep.CommentID == commentID && rep.Category == category && rep.Live() {
			cp := *rep
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListByReporter(_ context.Context, reporterID uuid.UUID) ([]*report.Report, error) {
	var out []*report.Report
	for _, rep := range f.reports {
		if rep.ReporterID == reporterID {
			cp := *rep
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListQueue(_ context.Context, _ *report.ListFilter) ([]*report.Report, int, error) {
	var out []*report.Report
	for _, rep := range f.reports {
		cp := *rep
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) CountUniqueWhisperReporters(_ context.Context, whisperID uuid.UUID, _ time.Time) (int, error) {
	return f.whisperCounts[whisperID], nil
}

func (f *fakeRepo) CountUniqueCommentReporters(_ context.Context, commentID uuid.UUID, _ time.Time) (int, error) {
	return f.commentCounts[commentID], nil
}

type recordedViolation struct {
	userID uuid.UUID
	vtype  reputation.ViolationType
}

type fakeReputation struct {
	reps        map[uuid.UUID]*reputation.UserReputation
	violations  []recordedViolation
	adjustments map[uuid.UUID]int
}

func newFakeReputation() *fakeReputation {
	return &fakeReputation{
		reps:        make(map[uuid.UUID]*reputation.UserReputation),
		adjustments: make(map[uuid.UUID]int),
	}
}

func (f *fakeReputation) GetOrCreate(_ context.Context, userID uuid.UUID) (*reputation.UserReputation, error) {
	if rep, ok := f.reps[userID]; ok {
		return rep, nil
	}
	return reputation.NewDefault(userID), nil
}

func (f *fakeReputation) RecordViolation(_ context.Context, userID uuid.UUID, vtype reputation.ViolationType, _ reputation.Severity, _ uuid.UUID, _ string) (*reputation.ViolationRecord, error) {
	f.violations = append(f.violations, recordedViolation{userID: userID, vtype: vtype})
	return &reputation.ViolationRecord{ID: uuid.New(), UserID: userID, ViolationType: vtype}, nil
}

func (f *fakeReputation) ApplyAdjustment(_ context.Context, userID uuid.UUID, delta int, _ string) error {
	f.adjustments[userID] += delta
	return nil
}

func (f *fakeReputation) CountViolations(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, v := range f.violations {
		if v.userID == userID {
			n++
		}
	}
	return n, nil
}

type fakeSuspensions struct {
	created   []*suspension.CreateRequest
	automatic map[uuid.UUID]int
	suspended map[uuid.UUID]bool
}

func newFakeSuspensions() *fakeSuspensions {
	return &fakeSuspensions{
		automatic: make(map[uuid.UUID]int),
		suspended: make(map[uuid.UUID]bool),
	}
}

func (f *fakeSuspensions) Create(_ context.Context, req *suspension.CreateRequest) (*suspension.Suspension, error) {
	f.created = append(f.created, req)
	return &suspension.Suspension{ID: uuid.New(), UserID: req.UserID, Type: req.Type}, nil
}

func (f *fakeSuspensions) AutomaticFor(_ context.Context, userID uuid.UUID, violationCount int, _ string) (*suspension.Suspension, error) {
	f.automatic[userID] = violationCount
	return &suspension.Suspension{ID: uuid.New(), UserID: userID}, nil
}

func (f *fakeSuspensions) IsUserSuspended(_ context.Context, userID uuid.UUID) *suspension.Status {
	return &suspension.Status{Suspended: f.suspended[userID]}
}

type fakeContent struct {
	whispers map[uuid.UUID]*whisper.Whisper
	comments map[uuid.UUID]*whisper.Comment
	deleted  map[uuid.UUID]bool
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		whispers: make(map[uuid.UUID]*whisper.Whisper),
		comments: make(map[uuid.UUID]*whisper.Comment),
		deleted:  make(map[uuid.UUID]bool),
	}
}

func (f *fakeContent) GetWhisper(_ context.Context, id uuid.UUID) (*whisper.Whisper, error) {
	w, ok := f.whispers[id]
	if !ok {
		return nil, nil
	}
	return w, nil
}

func (f *fakeContent) FlagWhisper(_ context.Context, id uuid.UUID) error {
	if w, ok := f.whispers[id]; ok {
		w.Flagged = true
	}
	return nil
}

func (f *fakeContent) DeleteWhisper(_ context.Context, id uuid.UUID) error {
	delete(f.whispers, id)
	f.deleted[id] = true
	return nil
}

func (f *fakeContent) GetComment(_ context.Context, id uuid.UUID) (*whisper.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (f *fakeContent) HideComment(_ context.Context, id uuid.UUID) error {
	if c, ok := f.comments[id]; ok {
		c.Hidden = true
	}
	return nil
}

func (f *fakeContent) DeleteComment(_ context.Context, id uuid.UUID) error {
	delete(f.comments, id)
	f.deleted[id] = true
	return nil
}

type fixture struct {
	repo        *fakeRepo
	reputation  *fakeReputation
	suspensions *fakeSuspensions
	content     *fakeContent
	svc         *report.Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:        newFakeRepo(),
		reputation:  newFakeReputation(),
		suspensions: newFakeSuspensions(),
		content:     newFakeContent(),
	}
	f.svc = report.NewService(f.repo, f.reputation, f.suspensions, f.content, 30)
	return f
}

func (f *fixture) addWhisper(ownerID uuid.UUID) *whisper.Whisper {
	w := &whisper.Whisper{ID: uuid.New(), OwnerID: ownerID, CreatedAt: time.Now()}
	f.content.whispers[w.ID] = w
	return w
}

func (f *fixture) addComment(authorID uuid.UUID) *whisper.Comment {
	c := &whisper.Comment{ID: uuid.New(), WhisperID: uuid.New(), AuthorID: authorID, CreatedAt: time.Now()}
	f.content.comments[c.ID] = c
	return c
}

func TestCreateSnapshotsReporter(t *testing.T) {
	f := newFixture()
	w := f.addWhisper(uuid.New())

	reporterID := uuid.New()
	f.reputation.reps[reporterID] = &reputation.UserReputation{
		UserID: reporterID, Score: 95, Level: reputation.LevelTrusted,
	}

	rep, err := f.svc.Create(context.Background(), reporterID, "echo_hunter", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "spam",
		Reason:    "link farm in the caption",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rep.ReporterReputation != 95 {
		t.Errorf("reporter score snapshot = %d, want 95", rep.ReporterReputation)
	}
	if rep.ReputationWeight != 2.0 {
		t.Errorf("reputation weight = %v, want 2.0", rep.ReputationWeight)
	}
	// spam base is low, trusted reporter bumps to medium
	if rep.Priority != report.PriorityMedium {
		t.Errorf("priority = %q, want medium", rep.Priority)
	}
	if rep.Status != report.StatusPending {
		t.Errorf("status = %q, want pending", rep.Status)
	}
	if len(f.repo.reports) != 1 {
		t.Errorf("stored reports = %d, want 1", len(f.repo.reports))
	}
}

func TestCreateRejectsBannedReporter(t *testing.T) {
	f := newFixture()
	w := f.addWhisper(uuid.New())

	reporterID := uuid.New()
	f.reputation.reps[reporterID] = &reputation.UserReputation{
		UserID: reporterID, Score: 10, Level: reputation.LevelBanned,
	}

	_, err := f.svc.Create(context.Background(), reporterID, "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "spam",
		Reason:    "link farm",
	})
	if !errors.Is(err, report.ErrReporterBanned) {
		t.Errorf("error = %v, want ErrReporterBanned", err)
	}
}

func TestCreateUnknownWhisper(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), uuid.New(), "", &report.CreateRequest{
		WhisperID: uuid.New().String(),
		Category:  "spam",
		Reason:    "link farm",
	})
	if !errors.Is(err, report.ErrWhisperNotFound) {
		t.Errorf("error = %v, want ErrWhisperNotFound", err)
	}
}

func TestRepeatReportMerges(t *testing.T) {
	f := newFixture()
	w := f.addWhisper(uuid.New())
	reporterID := uuid.New()

	req := &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "harassment",
		Reason:    "targeted insults",
	}
	first, err := f.svc.Create(context.Background(), reporterID, "", req)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	req.Reason = "it continued in the comments"
	second, err := f.svc.Create(context.Background(), reporterID, "", req)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}

	if second.ID != first.ID {
		t.Fatal("repeat report created a new record instead of merging")
	}
	if !strings.Contains(second.Reason, "targeted insults") || !strings.Contains(second.Reason, "it continued in the comments") {
		t.Errorf("merged reason = %q, missing one of the submissions", second.Reason)
	}
	if second.Priority != first.Priority.Escalate() {
		t.Errorf("merged priority = %q, want one tier above %q", second.Priority, first.Priority)
	}
	if len(f.repo.reports) != 1 {
		t.Errorf("stored reports = %d, want 1", len(f.repo.reports))
	}
}

func TestWhisperFlagEscalation(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New()
	w := f.addWhisper(ownerID)
	f.repo.whisperCounts[w.ID] = 5

	if _, err := f.svc.Create(context.Background(), uuid.New(), "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "spam",
		Reason:    "link farm",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !f.content.whispers[w.ID].Flagged {
		t.Error("whisper not flagged at the flag threshold")
	}
	if f.content.deleted[w.ID] {
		t.Error("whisper deleted below the delete threshold")
	}
	if len(f.reputation.violations) != 1 || f.reputation.violations[0].vtype != reputation.ViolationWhisperFlagged {
		t.Errorf("violations = %+v, want one whisper_flagged for the owner", f.reputation.violations)
	}
	if f.reputation.violations[0].userID != ownerID {
		t.Error("flag violation recorded against the wrong user")
	}
}

func TestWhisperDeleteEscalation(t *testing.T) {
	f := newFixture()
	w := f.addWhisper(uuid.New())
	f.repo.whisperCounts[w.ID] = 15

	if _, err := f.svc.Create(context.Background(), uuid.New(), "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "spam",
		Reason:    "link farm",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !f.content.deleted[w.ID] {
		t.Error("whisper not deleted at the delete threshold")
	}
	if len(f.reputation.violations) != 1 || f.reputation.violations[0].vtype != reputation.ViolationWhisperDeleted {
		t.Errorf("violations = %+v, want one whisper_deleted", f.reputation.violations)
	}
	if len(f.suspensions.created) != 0 {
		t.Error("suspension created below the suspend threshold")
	}
}

func TestWhisperSuspendEscalation(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New()
	w := f.addWhisper(ownerID)
	f.repo.whisperCounts[w.ID] = 25

	if _, err := f.svc.Create(context.Background(), uuid.New(), "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "spam",
		Reason:    "link farm",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !f.content.deleted[w.ID] {
		t.Error("whisper not deleted at the suspend threshold")
	}
	if len(f.suspensions.created) != 1 {
		t.Fatalf("suspensions created = %d, want 1", len(f.suspensions.created))
	}
	susp := f.suspensions.created[0]
	if susp.UserID != ownerID || susp.Type != suspension.TypeTemporary || susp.DurationHours != 72 {
		t.Errorf("suspension = %+v, want 72h temporary for the owner", susp)
	}
}

func TestEscalationSkipsSuspendedOwner(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New()
	w := f.addWhisper(ownerID)
	f.repo.whisperCounts[w.ID] = 25
	f.suspensions.suspended[ownerID] = true

	if _, err := f.svc.Create(context.Background(), uuid.New(), "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "spam",
		Reason:    "link farm",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if f.content.deleted[w.ID] {
		t.Error("escalation acted on content of an already-suspended owner")
	}
	if len(f.suspensions.created) != 0 {
		t.Error("second suspension stacked on a suspended owner")
	}
}

func TestCommentHideAndDeleteEscalation(t *testing.T) {
	f := newFixture()
	authorID := uuid.New()
	c := f.addComment(authorID)
	f.repo.commentCounts[c.ID] = 3

	req := &report.CreateCommentRequest{
		WhisperID: c.WhisperID.String(),
		CommentID: c.ID.String(),
		Category:  "harassment",
		Reason:    "targeted insults",
	}
	if _, err := f.svc.CreateForComment(context.Background(), uuid.New(), "", req); err != nil {
		t.Fatalf("CreateForComment: %v", err)
	}
	if !f.content.comments[c.ID].Hidden {
		t.Error("comment not hidden at the hide threshold")
	}
	if f.content.deleted[c.ID] {
		t.Error("comment deleted below the delete threshold")
	}

	f.repo.commentCounts[c.ID] = 5
	if _, err := f.svc.CreateForComment(context.Background(), uuid.New(), "", req); err != nil {
		t.Fatalf("CreateForComment: %v", err)
	}
	if !f.content.deleted[c.ID] {
		t.Error("comment not deleted at the delete threshold")
	}
}

func TestResolveDismissPenalizesReporter(t *testing.T) {
	f := newFixture()
	w := f.addWhisper(uuid.New())
	reporterID := uuid.New()

	rep, err := f.svc.Create(context.Background(), reporterID, "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "spam",
		Reason:    "link farm",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resolved, err := f.svc.Resolve(context.Background(), rep.ID, uuid.New(), &report.ResolveRequest{
		Action: "dismiss",
		Reason: "content is fine",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != report.StatusResolved {
		t.Errorf("status = %q, want resolved", resolved.Status)
	}
	if f.reputation.adjustments[reporterID] != -2 {
		t.Errorf("reporter penalty = %d, want -2", f.reputation.adjustments[reporterID])
	}
}

func TestResolveDeleteRecordsViolation(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New()
	w := f.addWhisper(ownerID)

	rep, err := f.svc.Create(context.Background(), uuid.New(), "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "scam",
		Reason:    "fake giveaway",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.svc.Resolve(context.Background(), rep.ID, uuid.New(), &report.ResolveRequest{
		Action: "delete",
		Reason: "confirmed scam",
	}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if !f.content.deleted[w.ID] {
		t.Error("whisper not deleted on delete resolution")
	}
	if len(f.reputation.violations) != 1 || f.reputation.violations[0].userID != ownerID {
		t.Errorf("violations = %+v, want one against the owner", f.reputation.violations)
	}
	if f.reputation.violations[0].vtype != reputation.ViolationType("scam") {
		t.Errorf("violation type = %q, want scam", f.reputation.violations[0].vtype)
	}
}

func TestResolveTwiceRejected(t *testing.T) {
	f := newFixture()
	w := f.addWhisper(uuid.New())

	rep, err := f.svc.Create(context.Background(), uuid.New(), "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "spam",
		Reason:    "link farm",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := &report.ResolveRequest{Action: "dismiss", Reason: "content is fine"}
	if _, err := f.svc.Resolve(context.Background(), rep.ID, uuid.New(), req); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}

	_, err = f.svc.Resolve(context.Background(), rep.ID, uuid.New(), req)
	if !errors.Is(err, report.ErrAlreadyResolved) {
		t.Errorf("error = %v, want ErrAlreadyResolved", err)
	}
}

func TestEscalatePriorityAtCriticalMarksEscalated(t *testing.T) {
	f := newFixture()
	w := f.addWhisper(uuid.New())

	rep, err := f.svc.Create(context.Background(), uuid.New(), "", &report.CreateRequest{
		WhisperID: w.ID.String(),
		Category:  "minor_safety",
		Reason:    "underage user in the recording",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rep.Priority != report.PriorityCritical {
		t.Fatalf("priority = %q, want critical", rep.Priority)
	}

	bumped, err := f.svc.EscalatePriority(context.Background(), rep.ID)
	if err != nil {
		t.Fatalf("EscalatePriority: %v", err)
	}
	if bumped.Status != report.StatusEscalated {
		t.Errorf("status = %q, want escalated", bumped.Status)
	}
	if bumped.Priority != report.PriorityCritical {
		t.Errorf("priority = %q, want critical", bumped.Priority)
	}
}
