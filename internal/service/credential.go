package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edubridge/university-lms/internal/everycred"
	"github.com/edubridge/university-lms/internal/logging"
	"github.com/edubridge/university-lms/internal/models"
	"github.com/edubridge/university-lms/internal/repo"
)

// CredentialIssuer is the slice of the EveryCRED client the service
// needs; tests substitute a fake.
type CredentialIssuer interface {
	IssueCredential(ctx context.Context, req everycred.CredentialRequest) (*everycred.Credential, error)
	ListCredentials(ctx context.Context, page, size int) ([]everycred.Credential, error)
	VerifyCredential(ctx context.Context, credentialID string) (*everycred.Credential, error)
}

type CredentialService struct {
	Repo        *repo.GormRepo
	Issuer      CredentialIssuer
	Events      EventPublisher
	Institution string
}

type IssueInput struct {
	StudentID uint   `json:"student_id"`
	CourseID  uint   `json:"course_id"`
	Degree    string `json:"degree"`
}

func (s *CredentialService) Issue(ctx context.Context, in IssueInput) (*models.CredentialRecord, error) {
	l := logging.FromContext(ctx).With("svc", "credential.issue")

	student, err := s.Repo.FindStudentByID(ctx, in.StudentID)
	if err != nil {
		l.Error("credential_issue_failed", "error", err)
		return nil, ErrInternal
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	course, err := s.Repo.FindCourseByID(ctx, in.CourseID)
	if err != nil {
		l.Error("credential_issue_failed", "error", err)
		return nil, ErrInternal
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	degree := in.Degree
	if degree == "" {
		degree = course.Name
	}
	req := everycred.CredentialRequest{
		StudentName:  student.Name,
		StudentEmail: student.Email,
		Degree:       degree,
		Program:      student.Program,
		Institution:  s.Institution,
		IssueDate:    time.Now().UTC().Format("2006-01-02"),
	}
	if student.CompletionDate != nil {
		req.CompletionDate = student.CompletionDate.Format("2006-01-02")
	}

	cred, err := s.Issuer.IssueCredential(ctx, req)
	if err != nil {
		l.Error("credential_issue_failed", "reason", "everycred_error", "error", err)
		return nil, ErrInternal
	}

	issuedAt, parseErr := time.Parse(time.RFC3339, cred.IssuedAt)
	if parseErr != nil {
		issuedAt = time.Now().UTC()
	}
	rec := &models.CredentialRecord{
		CredentialID:    cred.CredentialID,
		StudentID:       student.ID,
		CourseID:        course.ID,
		VerificationURL: cred.VerificationURL,
		Status:          cred.Status,
		IssuedAt:        issuedAt,
	}
	if err := s.Repo.CreateCredentialRecord(ctx, rec); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fail(CodeConflict, "Credential already recorded")
		}
		l.Error("credential_issue_failed", "reason", "db_error", "error", err)
		return nil, ErrInternal
	}

	if s.Events != nil {
		event := map[string]interface{}{
			"type":          "credential_issued",
			"credential_id": rec.CredentialID,
			"student_id":    student.ID,
			"course_id":     course.ID,
		}
		if err := s.Events.Publish(ctx, "credential_events", fmt.Sprint(student.ID), event); err != nil {
			l.Error("event_publish_failed", "topic", "credential_events", "error", err)
		}
	}

	l.Info("credential_issued", "credential_id", rec.CredentialID)
	return rec, nil
}

// List returns the locally recorded credentials; the remote listing is
// consulted only to refresh status fields for records it knows about.
func (s *CredentialService) List(ctx context.Context, offset, limit int) ([]models.CredentialRecord, int64, error) {
	l := logging.FromContext(ctx).With("svc", "credential.list")

	records, total, err := s.Repo.ListCredentialRecords(ctx, offset, limit)
	if err != nil {
		l.Error("credential_list_failed", "error", err)
		return nil, 0, ErrInternal
	}

	remote, err := s.Issuer.ListCredentials(ctx, 1, limit)
	if err != nil {
		// The local trace is still useful when EveryCRED is down.
		l.Warn("credential_remote_list_failed", "error", err)
		return records, total, nil
	}
	statusByID := make(map[string]string, len(remote))
	for _, cred := range remote {
		statusByID[cred.CredentialID] = cred.Status
	}
	for i := range records {
		if status, ok := statusByID[records[i].CredentialID]; ok {
			records[i].Status = status
		}
	}
	return records, total, nil
}

func (s *CredentialService) Verify(ctx context.Context, credentialID string) (*everycred.Credential, error) {
	l := logging.FromContext(ctx).With("svc", "credential.verify")

	cred, err := s.Issuer.VerifyCredential(ctx, credentialID)
	if err != nil {
		var se *everycred.StatusError
		if errors.As(err, &se) && se.StatusCode == 404 {
			return nil, ErrCredentialNotFound
		}
		l.Error("credential_verify_failed", "credential_id", credentialID, "error", err)
		return nil, ErrInternal
	}
	return cred, nil
}
