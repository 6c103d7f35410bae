package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/FranOrder/complaint-backend/internal/intake"
	"github.com/FranOrder/complaint-backend/internal/model"
	"github.com/FranOrder/complaint-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrEvidenceNotFound  = errors.New("evidence not found")
	ErrForbidden         = errors.New("forbidden: user does not have permission for this action")
	ErrInvalidTransition = errors.New("status transition is not permitted")
	ErrComplaintClosed   = errors.New("complaint is closed and cannot change status")
	ErrInvalidFileFormat = errors.New("invalid file format. only .jpg, .jpeg, .png, .pdf, .mp4, .mp3 are allowed")
	ErrFileSizeExceeded  = errors.New("file size exceeds limit")
	ErrValidationFailed  = errors.New("complaint validation failed")
)

const MaxEvidenceFileSize = 10 * 1024 * 1024 // 10MB

var allowedEvidenceExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".pdf": true, ".mp4": true, ".mp3": true,
}

// EvidenceUploadResult reports the outcome of one file in an upload batch.
type EvidenceUploadResult struct {
	FileName string          `json:"fileName"`
	Evidence *model.Evidence `json:"evidence,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ComplaintService owns the complaint workflow: intake validation, the status
// state machine and evidence attachment.
type ComplaintService interface {
	CreateComplaint(ctx context.Context, victimID int, req model.CreateComplaintRequest) (*model.Complaint, error)
	GetComplaintByID(ctx context.Context, complaintID int64, userID int, userRole string) (*model.Complaint, error)
	GetVictimComplaints(ctx context.Context, victimID int) ([]model.Complaint, error)
	GetAllComplaints(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, complaintID int64, requestedStatus string) (*model.Complaint, error)
	AttachEvidence(ctx context.Context, complaintID int64, victimID int, files []*multipart.FileHeader) ([]EvidenceUploadResult, error)
	GetEvidencePath(ctx context.Context, complaintID, evidenceID int64, userID int, userRole string) (string, string, error)
}

type complaintService struct {
	repo       repository.ComplaintRepository
	uploadsDir string
	now        func() time.Time
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(repo repository.ComplaintRepository, uploadsDir string) ComplaintService {
	return &complaintService{repo: repo, uploadsDir: uploadsDir, now: time.Now}
}

// CreateComplaint validates the intake payload against the shared rule table
// and files the complaint with the initial RECEIVED status. Any client-sent
// status is ignored.
func (s *complaintService) CreateComplaint(ctx context.Context, victimID int, req model.CreateComplaintRequest) (*model.Complaint, error) {
	if err := intake.ValidateRequest(&req, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	incidentDate, err := time.Parse("2006-01-02", req.IncidentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: incidentDate must be a YYYY-MM-DD date", ErrValidationFailed)
	}

	now := s.now()
	complaint := &model.Complaint{
		VictimID:                   victimID,
		Description:                strings.TrimSpace(req.Description),
		ViolenceType:               req.ViolenceType,
		IncidentDate:               incidentDate,
		IncidentLocation:           req.IncidentLocation,
		AggressorFullName:          strings.TrimSpace(req.AggressorFullName),
		AggressorRelationship:      req.AggressorRelationship,
		AggressorAdditionalDetails: req.AggressorAdditionalDetails,
		Status:                     model.StatusReceived,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint in repo: %w", err)
	}
	return complaint, nil
}

// GetComplaintByID returns a complaint with its evidence. Victims only see
// their own complaints; admins see everything.
func (s *complaintService) GetComplaintByID(ctx context.Context, complaintID int64, userID int, userRole string) (*model.Complaint, error) {
	complaint, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to find complaint by ID: %w", err)
	}
	if complaint == nil {
		return nil, ErrComplaintNotFound
	}

	if userRole != model.RoleAdmin && complaint.VictimID != userID {
		return nil, ErrForbidden
	}

	evidences, err := s.repo.ListEvidence(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence: %w", err)
	}
	complaint.Evidences = evidences
	return complaint, nil
}

// GetVictimComplaints lists the caller's own complaints.
func (s *complaintService) GetVictimComplaints(ctx context.Context, victimID int) ([]model.Complaint, error) {
	complaints, err := s.repo.FindByVictim(ctx, victimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get victim complaints from repo: %w", err)
	}
	return complaints, nil
}

// GetAllComplaints lists every complaint for the admin views.
func (s *complaintService) GetAllComplaints(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error) {
	complaints, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get all complaints: %w", err)
	}
	return complaints, nil
}

// UpdateStatus applies the workflow state machine. Transitions must move
// forward through RECEIVED < IN_REVIEW < ACTION_TAKEN < CLOSED and CLOSED is
// terminal; a backward or repeated target is rejected before any update is
// issued. A RECEIVED→ACTION_TAKEN request is split into two sequential
// updates through IN_REVIEW; if the intermediate update fails the second is
// never attempted and the failure is reported against the original request.
func (s *complaintService) UpdateStatus(ctx context.Context, complaintID int64, requestedStatus string) (*model.Complaint, error) {
	if !model.ValidStatus(requestedStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, requestedStatus)
	}

	complaint, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to find complaint for status update: %w", err)
	}
	if complaint == nil {
		return nil, ErrComplaintNotFound
	}

	current := complaint.Status
	if current == model.StatusClosed {
		return nil, ErrComplaintClosed
	}
	if model.StatusOrder[requestedStatus] <= model.StatusOrder[current] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, requestedStatus)
	}

	if current == model.StatusReceived && requestedStatus == model.StatusActionTaken {
		if err := s.repo.UpdateStatus(ctx, complaintID, model.StatusInReview); err != nil {
			return nil, fmt.Errorf("failed to move complaint to %s on the way to %s: %w",
				model.StatusInReview, model.StatusActionTaken, err)
		}
	}

	if err := s.repo.UpdateStatus(ctx, complaintID, requestedStatus); err != nil {
		return nil, fmt.Errorf("failed to update complaint status: %w", err)
	}

	complaint.Status = requestedStatus
	complaint.UpdatedAt = s.now()
	return complaint, nil
}

// AttachEvidence stores a batch of files for a complaint, one at a time and
// strictly in order. A failing file is logged and recorded in the result but
// never aborts the rest of the batch.
func (s *complaintService) AttachEvidence(ctx context.Context, complaintID int64, victimID int, files []*multipart.FileHeader) ([]EvidenceUploadResult, error) {
	complaint, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to find complaint for evidence upload: %w", err)
	}
	if complaint == nil {
		return nil, ErrComplaintNotFound
	}
	if complaint.VictimID != victimID {
		return nil, ErrForbidden
	}

	results := make([]EvidenceUploadResult, 0, len(files))
	for _, fileHeader := range files {
		evidence, err := s.saveEvidenceFile(ctx, complaintID, fileHeader)
		if err != nil {
			log.Printf("Error uploading evidence %q for complaint %d: %v", fileHeader.Filename, complaintID, err)
			results = append(results, EvidenceUploadResult{FileName: fileHeader.Filename, Error: err.Error()})
			continue
		}
		results = append(results, EvidenceUploadResult{FileName: fileHeader.Filename, Evidence: evidence})
	}
	return results, nil
}

func (s *complaintService) saveEvidenceFile(ctx context.Context, complaintID int64, fileHeader *multipart.FileHeader) (*model.Evidence, error) {
	if fileHeader.Size > MaxEvidenceFileSize {
		return nil, ErrFileSizeExceeded
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedEvidenceExts[ext] {
		return nil, ErrInvalidFileFormat
	}

	complaintUploadsDir := filepath.Join(s.uploadsDir, "complaints", strconv.FormatInt(complaintID, 10))
	if err := os.MkdirAll(complaintUploadsDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Random storage name; the original filename is kept in the DB row only.
	storedName := uuid.New().String() + ext
	filePath := filepath.Join(complaintUploadsDir, storedName)
	storageKey := filepath.ToSlash(filepath.Join("complaints", strconv.FormatInt(complaintID, 10), storedName))

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	evidence := &model.Evidence{
		ComplaintID: complaintID,
		FileName:    filepath.Base(fileHeader.Filename),
		FileType:    strings.TrimPrefix(ext, "."),
		FileSize:    fileHeader.Size,
		StorageKey:  storageKey,
		UploadedAt:  s.now(),
	}
	if err := s.repo.AddEvidence(ctx, evidence); err != nil {
		os.Remove(filePath) // Attempt to clean up
		return nil, fmt.Errorf("failed to record evidence: %w", err)
	}
	return evidence, nil
}

// GetEvidencePath resolves an evidence download to its path on disk and the
// display filename. Victims may only fetch evidence of their own complaints.
func (s *complaintService) GetEvidencePath(ctx context.Context, complaintID, evidenceID int64, userID int, userRole string) (string, string, error) {
	complaint, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return "", "", fmt.Errorf("failed to find complaint for evidence retrieval: %w", err)
	}
	if complaint == nil {
		return "", "", ErrComplaintNotFound
	}
	if userRole != model.RoleAdmin && complaint.VictimID != userID {
		return "", "", ErrForbidden
	}

	evidence, err := s.repo.FindEvidenceByID(ctx, evidenceID)
	if err != nil {
		return "", "", fmt.Errorf("failed to find evidence: %w", err)
	}
	if evidence == nil || evidence.ComplaintID != complaintID {
		return "", "", ErrEvidenceNotFound
	}

	fullPath := filepath.Join(s.uploadsDir, filepath.FromSlash(evidence.StorageKey))
	return fullPath, evidence.FileName, nil
}
