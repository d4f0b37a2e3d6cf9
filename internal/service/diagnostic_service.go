package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/config"
	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// Diagnostic service sentinels.
var (
	ErrTestNotFound      = errors.New("diagnostic test not found")
	ErrResultNotFound    = errors.New("diagnostic result not found")
	ErrNotTestOwner      = errors.New("diagnostic test belongs to another teacher")
	ErrTestHasNoQuestion = errors.New("diagnostic test has no questions")
	ErrAnswerMismatch    = errors.New("answers do not match the test questions")
	ErrInvalidQuestion   = errors.New("invalid question payload")
)

// questionSchema double-checks question payloads beyond struct tags: the
// options array must hold unique non-empty strings and contain the marked
// correct answer (enforced separately after schema validation).
var questionSchema = jsonschema.MustCompileString("question.schema.json", `{
	"type": "object",
	"required": ["enunciado", "opciones", "respuesta_correcta"],
	"properties": {
		"enunciado": {"type": "string", "minLength": 3},
		"opciones": {
			"type": "array",
			"minItems": 2,
			"maxItems": 10,
			"uniqueItems": true,
			"items": {"type": "string", "minLength": 1}
		},
		"respuesta_correcta": {"type": "string", "minLength": 1}
	}
}`)

// DiagnosticService manages diagnostic tests, question banks and grading.
// Grading is exact string match per question; the aggregate percentage maps
// to a category through configured thresholds.
type DiagnosticService interface {
	ListTests(ctx context.Context, teacherID *uint) ([]dto.DiagnosticTestResponse, error)
	GetTest(ctx context.Context, id uint, includeAnswers bool) (dto.DiagnosticTestResponse, error)
	CreateTest(ctx context.Context, teacherID uint, payload dto.DiagnosticTestRequest) (dto.DiagnosticTestResponse, error)
	UpdateTest(ctx context.Context, teacherID uint, id uint, payload dto.DiagnosticTestRequest) (dto.DiagnosticTestResponse, error)
	DeleteTest(ctx context.Context, teacherID uint, id uint) error
	AddQuestion(ctx context.Context, teacherID uint, testID uint, payload dto.DiagnosticQuestionRequest) (dto.DiagnosticQuestionResponse, error)
	Submit(ctx context.Context, studentID uint, testID uint, payload dto.DiagnosticSubmitRequest) (dto.DiagnosticResultResponse, error)
	GetResult(ctx context.Context, testID, studentID uint) (dto.DiagnosticResultResponse, error)
	ListResults(ctx context.Context, studentID uint) ([]dto.DiagnosticResultResponse, error)
}

type diagnosticService struct {
	diagnostics repository.DiagnosticRepository
	thresholds  config.DiagnosticThresholds
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewDiagnosticService constructs a DiagnosticService instance.
func NewDiagnosticService(diagnostics repository.DiagnosticRepository, thresholds config.DiagnosticThresholds, validate *validator.Validate, logger zerolog.Logger) DiagnosticService {
	return &diagnosticService{
		diagnostics: diagnostics,
		thresholds:  thresholds,
		validator:   validate,
		logger:      logger.With().Str("component", "diagnostic_service").Logger(),
	}
}

func (s *diagnosticService) ListTests(ctx context.Context, teacherID *uint) ([]dto.DiagnosticTestResponse, error) {
	tests, err := s.diagnostics.ListTests(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return dto.NewDiagnosticTestResponseSlice(tests), nil
}

func (s *diagnosticService) GetTest(ctx context.Context, id uint, includeAnswers bool) (dto.DiagnosticTestResponse, error) {
	test, err := s.diagnostics.GetTest(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiagnosticTestResponse{}, ErrTestNotFound
		}
		return dto.DiagnosticTestResponse{}, err
	}
	return dto.NewDiagnosticTestResponse(test, includeAnswers), nil
}

func (s *diagnosticService) CreateTest(ctx context.Context, teacherID uint, payload dto.DiagnosticTestRequest) (dto.DiagnosticTestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiagnosticTestResponse{}, err
	}

	test := models.DiagnosticTest{
		TeacherID:   teacherID,
		Title:       payload.Title,
		Description: payload.Description,
	}

	if err := s.diagnostics.CreateTest(ctx, &test); err != nil {
		return dto.DiagnosticTestResponse{}, err
	}

	s.logger.Info().Uint("test_id", test.ID).Uint("teacher_id", teacherID).Msg("diagnostic test created")

	return dto.NewDiagnosticTestResponse(test, true), nil
}

func (s *diagnosticService) UpdateTest(ctx context.Context, teacherID uint, id uint, payload dto.DiagnosticTestRequest) (dto.DiagnosticTestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiagnosticTestResponse{}, err
	}

	test, err := s.ownedTest(ctx, teacherID, id)
	if err != nil {
		return dto.DiagnosticTestResponse{}, err
	}

	test.Title = payload.Title
	test.Description = payload.Description

	if err := s.diagnostics.UpdateTest(ctx, &test); err != nil {
		return dto.DiagnosticTestResponse{}, err
	}

	return dto.NewDiagnosticTestResponse(test, true), nil
}

func (s *diagnosticService) DeleteTest(ctx context.Context, teacherID uint, id uint) error {
	if _, err := s.ownedTest(ctx, teacherID, id); err != nil {
		return err
	}
	return s.diagnostics.DeleteTest(ctx, id)
}

func (s *diagnosticService) AddQuestion(ctx context.Context, teacherID uint, testID uint, payload dto.DiagnosticQuestionRequest) (dto.DiagnosticQuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiagnosticQuestionResponse{}, err
	}

	if err := validateQuestionPayload(payload); err != nil {
		return dto.DiagnosticQuestionResponse{}, err
	}

	if _, err := s.ownedTest(ctx, teacherID, testID); err != nil {
		return dto.DiagnosticQuestionResponse{}, err
	}

	options, err := json.Marshal(payload.Options)
	if err != nil {
		return dto.DiagnosticQuestionResponse{}, err
	}

	question := models.DiagnosticQuestion{
		TestID:        testID,
		Statement:     payload.Statement,
		Options:       options,
		CorrectAnswer: payload.CorrectAnswer,
	}

	if err := s.diagnostics.CreateQuestion(ctx, &question); err != nil {
		return dto.DiagnosticQuestionResponse{}, err
	}

	return dto.NewDiagnosticQuestionResponse(question, true), nil
}

func (s *diagnosticService) Submit(ctx context.Context, studentID uint, testID uint, payload dto.DiagnosticSubmitRequest) (dto.DiagnosticResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiagnosticResultResponse{}, err
	}

	test, err := s.diagnostics.GetTest(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiagnosticResultResponse{}, ErrTestNotFound
		}
		return dto.DiagnosticResultResponse{}, err
	}

	if len(test.Questions) == 0 {
		return dto.DiagnosticResultResponse{}, ErrTestHasNoQuestion
	}

	byQuestion := make(map[uint]string, len(payload.Answers))
	for _, item := range payload.Answers {
		byQuestion[item.QuestionID] = item.Answer
	}

	// Every question must be answered exactly once; stray IDs are rejected
	// rather than silently ignored.
	if len(byQuestion) != len(test.Questions) {
		return dto.DiagnosticResultResponse{}, ErrAnswerMismatch
	}

	answers := make([]models.DiagnosticAnswer, 0, len(test.Questions))
	correct := 0
	for _, question := range test.Questions {
		answer, ok := byQuestion[question.ID]
		if !ok {
			return dto.DiagnosticResultResponse{}, ErrAnswerMismatch
		}

		isCorrect := answer == question.CorrectAnswer
		if isCorrect {
			correct++
		}

		answers = append(answers, models.DiagnosticAnswer{
			TestID:     testID,
			QuestionID: question.ID,
			StudentID:  studentID,
			Answer:     answer,
			Correct:    isCorrect,
		})
	}

	if err := s.diagnostics.SaveAnswers(ctx, answers); err != nil {
		return dto.DiagnosticResultResponse{}, err
	}

	total := len(test.Questions)
	percentage := math.Round(float64(correct)/float64(total)*10000) / 100

	result := models.DiagnosticResult{
		TestID:     testID,
		StudentID:  studentID,
		Correct:    correct,
		Total:      total,
		Percentage: percentage,
		Category:   s.thresholds.Categorize(percentage),
	}

	if err := s.diagnostics.SaveResult(ctx, &result); err != nil {
		return dto.DiagnosticResultResponse{}, err
	}

	s.logger.Info().
		Uint("test_id", testID).
		Uint("student_id", studentID).
		Float64("percentage", percentage).
		Str("category", result.Category).
		Msg("diagnostic submitted")

	return dto.NewDiagnosticResultResponse(result), nil
}

func (s *diagnosticService) GetResult(ctx context.Context, testID, studentID uint) (dto.DiagnosticResultResponse, error) {
	result, err := s.diagnostics.GetResult(ctx, testID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiagnosticResultResponse{}, ErrResultNotFound
		}
		return dto.DiagnosticResultResponse{}, err
	}
	return dto.NewDiagnosticResultResponse(result), nil
}

func (s *diagnosticService) ListResults(ctx context.Context, studentID uint) ([]dto.DiagnosticResultResponse, error) {
	results, err := s.diagnostics.ListResultsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewDiagnosticResultResponseSlice(results), nil
}

func (s *diagnosticService) ownedTest(ctx context.Context, teacherID uint, id uint) (models.DiagnosticTest, error) {
	test, err := s.diagnostics.GetTest(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DiagnosticTest{}, ErrTestNotFound
		}
		return models.DiagnosticTest{}, err
	}
	if teacherID != 0 && test.TeacherID != teacherID {
		return models.DiagnosticTest{}, ErrNotTestOwner
	}
	return test, nil
}

func validateQuestionPayload(payload dto.DiagnosticQuestionRequest) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}

	if err := questionSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}

	for _, option := range payload.Options {
		if option == payload.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: respuesta_correcta must match one of the options", ErrInvalidQuestion)
}
