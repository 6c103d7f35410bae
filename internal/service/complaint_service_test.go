package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"testing"

	"github.com/FranOrder/complaint-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeComplaintRepo records calls so tests can assert on exactly which
// updates the workflow issued and in which order.
type fakeComplaintRepo struct {
	complaints map[int64]*model.Complaint
	evidences  []model.Evidence

	statusCalls    []string
	statusAttempts int
	failStatusAt   int // 1-based call index that fails; 0 never fails
	failAddAt      int // 1-based AddEvidence call index that fails; 0 never fails
	addEvidenceCnt int
	nextEvidenceID int64
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[int64]*model.Complaint)}
}

func (f *fakeComplaintRepo) Create(ctx context.Context, c *model.Complaint) error {
	c.ID = int64(len(f.complaints) + 1)
	f.complaints[c.ID] = c
	return nil
}

func (f *fakeComplaintRepo) FindByID(ctx context.Context, id int64) (*model.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeComplaintRepo) FindByVictim(ctx context.Context, victimID int) ([]model.Complaint, error) {
	var out []model.Complaint
	for _, c := range f.complaints {
		if c.VictimID == victimID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComplaintRepo) FindAll(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error) {
	var out []model.Complaint
	for _, c := range f.complaints {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeComplaintRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	f.statusAttempts++
	if f.failStatusAt == f.statusAttempts {
		return errors.New("simulated update failure")
	}
	f.statusCalls = append(f.statusCalls, status)
	if c, ok := f.complaints[id]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeComplaintRepo) AddEvidence(ctx context.Context, e *model.Evidence) error {
	f.addEvidenceCnt++
	if f.failAddAt == f.addEvidenceCnt {
		return errors.New("simulated insert failure")
	}
	f.nextEvidenceID++
	e.ID = f.nextEvidenceID
	f.evidences = append(f.evidences, *e)
	return nil
}

func (f *fakeComplaintRepo) ListEvidence(ctx context.Context, complaintID int64) ([]model.Evidence, error) {
	var out []model.Evidence
	for _, e := range f.evidences {
		if e.ComplaintID == complaintID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeComplaintRepo) FindEvidenceByID(ctx context.Context, id int64) (*model.Evidence, error) {
	for i := range f.evidences {
		if f.evidences[i].ID == id {
			copied := f.evidences[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func seedComplaint(repo *fakeComplaintRepo, status string) *model.Complaint {
	c := &model.Complaint{VictimID: 7, Status: status}
	_ = repo.Create(context.Background(), c)
	return c
}

func validCreateRequest() model.CreateComplaintRequest {
	location := "Av. Brasil 500, Breña"
	return model.CreateComplaintRequest{
		Description:       "A detailed description of the incident that happened.",
		ViolenceType:      model.ViolencePsychological,
		IncidentDate:      "2026-01-15",
		IncidentLocation:  &location,
		AggressorFullName: "Carlos Gómez",
	}
}

func TestCreateComplaint_AssignsReceivedStatus(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())

	complaint, err := svc.CreateComplaint(context.Background(), 7, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, complaint.Status)
	assert.Equal(t, 7, complaint.VictimID)
	assert.NotZero(t, complaint.ID)
}

func TestCreateComplaint_RejectsInvalidIntake(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())

	req := validCreateRequest()
	req.Description = "too short"

	_, err := svc.CreateComplaint(context.Background(), 7, req)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, repo.complaints)
}

func TestUpdateStatus_ForwardSingleStep(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())
	c := seedComplaint(repo, model.StatusReceived)

	updated, err := svc.UpdateStatus(context.Background(), c.ID, model.StatusInReview)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInReview, updated.Status)
	assert.Equal(t, []string{model.StatusInReview}, repo.statusCalls)
}

func TestUpdateStatus_ReceivedToActionTakenGoesThroughInReview(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())
	c := seedComplaint(repo, model.StatusReceived)

	updated, err := svc.UpdateStatus(context.Background(), c.ID, model.StatusActionTaken)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActionTaken, updated.Status)
	assert.Equal(t, []string{model.StatusInReview, model.StatusActionTaken}, repo.statusCalls)
}

func TestUpdateStatus_IntermediateFailureStopsSplit(t *testing.T) {
	repo := newFakeComplaintRepo()
	repo.failStatusAt = 1
	svc := NewComplaintService(repo, t.TempDir())
	c := seedComplaint(repo, model.StatusReceived)

	_, err := svc.UpdateStatus(context.Background(), c.ID, model.StatusActionTaken)
	require.Error(t, err)
	// The second update is never attempted after the intermediate one fails.
	assert.Equal(t, 1, repo.statusAttempts)
	assert.Empty(t, repo.statusCalls)
	assert.Equal(t, model.StatusReceived, repo.complaints[c.ID].Status)
}

func TestUpdateStatus_RejectsBackwardAndRepeatedTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
	}{
		{"backward", model.StatusActionTaken, model.StatusInReview},
		{"repeated", model.StatusInReview, model.StatusInReview},
		{"skip backward to start", model.StatusActionTaken, model.StatusReceived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeComplaintRepo()
			svc := NewComplaintService(repo, t.TempDir())
			c := seedComplaint(repo, tt.current)

			_, err := svc.UpdateStatus(context.Background(), c.ID, tt.target)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			// Rejected before any repository write.
			assert.Empty(t, repo.statusCalls)
		})
	}
}

func TestUpdateStatus_ClosedIsTerminal(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())
	c := seedComplaint(repo, model.StatusClosed)

	_, err := svc.UpdateStatus(context.Background(), c.ID, model.StatusInReview)
	assert.ErrorIs(t, err, ErrComplaintClosed)
	assert.Empty(t, repo.statusCalls)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())
	c := seedComplaint(repo, model.StatusReceived)

	_, err := svc.UpdateStatus(context.Background(), c.ID, "ARCHIVED")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, repo.statusCalls)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())

	_, err := svc.UpdateStatus(context.Background(), 99, model.StatusInReview)
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestGetComplaintByID_Ownership(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())
	c := seedComplaint(repo, model.StatusReceived)

	_, err := svc.GetComplaintByID(context.Background(), c.ID, 8, model.RoleVictim)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetComplaintByID(context.Background(), c.ID, 7, model.RoleVictim)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	// Admins see everything.
	_, err = svc.GetComplaintByID(context.Background(), c.ID, 8, model.RoleAdmin)
	assert.NoError(t, err)
}

// buildFileHeaders assembles real multipart file headers for the given
// name→content pairs, in order.
func buildFileHeaders(t *testing.T, files [][2]string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := writer.CreateFormFile("file", f[0])
		require.NoError(t, err)
		_, err = io.WriteString(part, f[1])
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"]
}

func TestAttachEvidence_PartialBatchFailure(t *testing.T) {
	repo := newFakeComplaintRepo()
	uploadsDir := t.TempDir()
	svc := NewComplaintService(repo, uploadsDir)
	c := seedComplaint(repo, model.StatusReceived)

	files := buildFileHeaders(t, [][2]string{
		{"photo1.jpg", "first image"},
		{"malware.exe", "nope"},
		{"report.pdf", "third file"},
	})

	results, err := svc.AttachEvidence(context.Background(), c.ID, 7, files)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Empty(t, results[0].Error)
	require.NotNil(t, results[0].Evidence)
	assert.Equal(t, "photo1.jpg", results[0].FileName)

	// The rejected file reports its error but never aborts the batch.
	assert.Equal(t, ErrInvalidFileFormat.Error(), results[1].Error)
	assert.Nil(t, results[1].Evidence)

	assert.Empty(t, results[2].Error)
	require.NotNil(t, results[2].Evidence)

	stored, err := repo.ListEvidence(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	// Accepted files actually landed on disk under the complaint directory.
	for _, e := range stored {
		path := fmt.Sprintf("%s/%s", uploadsDir, e.StorageKey)
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	}
}

func TestAttachEvidence_DBFailureCleansUpFile(t *testing.T) {
	repo := newFakeComplaintRepo()
	repo.failAddAt = 1
	uploadsDir := t.TempDir()
	svc := NewComplaintService(repo, uploadsDir)
	c := seedComplaint(repo, model.StatusReceived)

	files := buildFileHeaders(t, [][2]string{{"photo.png", "bytes"}})
	results, err := svc.AttachEvidence(context.Background(), c.ID, 7, files)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Error)

	// No orphaned file remains after the insert failed.
	entries, err := os.ReadDir(fmt.Sprintf("%s/complaints/%d", uploadsDir, c.ID))
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestAttachEvidence_OnlyOwnerUploads(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())
	c := seedComplaint(repo, model.StatusReceived)

	files := buildFileHeaders(t, [][2]string{{"photo.jpg", "img"}})
	_, err := svc.AttachEvidence(context.Background(), c.ID, 8, files)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetEvidencePath_MismatchedComplaint(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, t.TempDir())
	c1 := seedComplaint(repo, model.StatusReceived)
	c2 := &model.Complaint{VictimID: 7, Status: model.StatusReceived}
	require.NoError(t, repo.Create(context.Background(), c2))

	files := buildFileHeaders(t, [][2]string{{"photo.jpg", "img"}})
	results, err := svc.AttachEvidence(context.Background(), c1.ID, 7, files)
	require.NoError(t, err)
	require.NotNil(t, results[0].Evidence)

	// Evidence belongs to c1; fetching it through c2 must 404.
	_, _, err = svc.GetEvidencePath(context.Background(), c2.ID, results[0].Evidence.ID, 7, model.RoleVictim)
	assert.ErrorIs(t, err, ErrEvidenceNotFound)
}
