package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// Assignment service sentinels.
var (
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrAlreadyAssigned     = errors.New("activity already assigned to student")
	ErrAlreadySubmitted    = errors.New("assignment already submitted")
	ErrNotAssignmentOwner  = errors.New("assignment belongs to another teacher")
	ErrNotAssignedStudent  = errors.New("assignment belongs to another student")
	ErrNotSubmitted        = errors.New("assignment has no submission to grade")
	ErrEmptySubmission     = errors.New("submission needs text or a file")
	ErrNotStudentRecipient = errors.New("assignments can only target students")
)

// AssignmentService orchestrates the assign, submit and grade workflow.
// Grading an assignment for the first time awards the activity's reward
// points through the gamification cascade.
type AssignmentService interface {
	List(ctx context.Context, filter dto.AssignmentFilter) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Assign(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Submit(ctx context.Context, studentID uint, id uint, payload dto.SubmissionRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	Grade(ctx context.Context, teacherID uint, id uint, payload dto.GradeRequest) (dto.AssignmentResponse, *dto.CascadeOutcome, error)
}

type assignmentService struct {
	assignments  repository.AssignmentRepository
	activities   repository.ActivityRepository
	users        repository.UserRepository
	gamification GamificationService
	validator    *validator.Validate
	uploader     FileUploader
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	activities repository.ActivityRepository,
	users repository.UserRepository,
	gamification GamificationService,
	validate *validator.Validate,
	uploader FileUploader,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments:  assignments,
		activities:   activities,
		users:        users,
		gamification: gamification,
		validator:    validate,
		uploader:     uploader,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "assignment_service").Logger(),
		now:          time.Now,
	}
}

func (s *assignmentService) List(ctx context.Context, filter dto.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{
		ActivityID: filter.ActivityID,
		StudentID:  filter.StudentID,
		TeacherID:  filter.TeacherID,
		Status:     filter.Status,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}
	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Assign(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	activity, err := s.activities.GetByID(ctx, payload.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrActivityNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if teacherID != 0 && activity.TeacherID != teacherID {
		return dto.AssignmentResponse{}, ErrNotActivityOwner
	}

	student, err := s.users.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrUserNotFound
		}
		return dto.AssignmentResponse{}, err
	}
	if !student.Role.IsStudent() {
		return dto.AssignmentResponse{}, ErrNotStudentRecipient
	}

	if _, err := s.assignments.GetByActivityAndStudent(ctx, payload.ActivityID, payload.StudentID); err == nil {
		return dto.AssignmentResponse{}, ErrAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		ActivityID: payload.ActivityID,
		StudentID:  payload.StudentID,
		TeacherID:  activity.TeacherID,
		Status:     models.AssignmentStatusAssigned,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	created, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", created.ID).
		Uint("activity_id", payload.ActivityID).
		Uint("student_id", payload.StudentID).
		Msg("activity assigned")

	return dto.NewAssignmentResponse(created), nil
}

func (s *assignmentService) Submit(ctx context.Context, studentID uint, id uint, payload dto.SubmissionRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if assignment.StudentID != studentID {
		return dto.AssignmentResponse{}, ErrNotAssignedStudent
	}

	// First write wins. Re-submission never overwrites handed-in work.
	if assignment.IsSubmitted() {
		return dto.AssignmentResponse{}, ErrAlreadySubmitted
	}

	text := s.sanitizer.Sanitize(payload.Text)
	if text == "" && file == nil {
		return dto.AssignmentResponse{}, ErrEmptySubmission
	}

	if file != nil {
		if err := validateMaterialType(file); err != nil {
			return dto.AssignmentResponse{}, err
		}
		reader, err := file.Open()
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("failed to open file: %w", err)
		}
		defer reader.Close()

		url, err := s.uploader.Upload(ctx, file.Filename, reader)
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("failed to upload file: %w", err)
		}
		assignment.SubmissionURL = url
	}

	submittedAt := s.now()
	assignment.SubmissionText = text
	assignment.SubmittedAt = &submittedAt
	assignment.Status = models.AssignmentStatusSubmitted

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	updated, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", updated.ID).Msg("assignment submitted")

	return dto.NewAssignmentResponse(updated), nil
}

func (s *assignmentService) Grade(ctx context.Context, teacherID uint, id uint, payload dto.GradeRequest) (dto.AssignmentResponse, *dto.CascadeOutcome, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, nil, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, nil, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, nil, err
	}

	if teacherID != 0 && assignment.TeacherID != teacherID {
		return dto.AssignmentResponse{}, nil, ErrNotAssignmentOwner
	}

	if !assignment.IsSubmitted() {
		return dto.AssignmentResponse{}, nil, ErrNotSubmitted
	}

	firstGrade := !assignment.IsGraded()

	gradedAt := s.now()
	grade := payload.Grade
	assignment.Grade = &grade
	assignment.Feedback = s.sanitizer.Sanitize(payload.Feedback)
	assignment.GradedAt = &gradedAt
	assignment.Status = models.AssignmentStatusGraded
	if teacherID != 0 {
		assignment.GradedBy = &teacherID
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, nil, err
	}

	// Reward points flow only on the first grading. Re-grades adjust the
	// grade and feedback without touching the point ledger.
	var outcome *dto.CascadeOutcome
	if firstGrade && assignment.Activity.RewardPoints > 0 {
		reason := fmt.Sprintf("actividad calificada: %s", assignment.Activity.Title)
		result, err := s.gamification.Award(ctx, assignment.StudentID, assignment.Activity.RewardPoints, reason)
		if err != nil {
			s.logger.Error().Err(err).
				Uint("assignment_id", assignment.ID).
				Uint("student_id", assignment.StudentID).
				Msg("reward award failed after grading")
		} else {
			outcome = &result
		}
	}

	updated, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, nil, err
	}

	s.logger.Info().
		Uint("assignment_id", updated.ID).
		Float64("grade", payload.Grade).
		Bool("first_grade", firstGrade).
		Msg("assignment graded")

	return dto.NewAssignmentResponse(updated), outcome, nil
}
