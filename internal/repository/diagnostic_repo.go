package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ludica-app/ludica-api/internal/models"
)

// DiagnosticRepository persists diagnostic tests, questions, answers and results.
type DiagnosticRepository interface {
	ListTests(ctx context.Context, teacherID *uint) ([]models.DiagnosticTest, error)
	GetTest(ctx context.Context, id uint) (models.DiagnosticTest, error)
	CreateTest(ctx context.Context, test *models.DiagnosticTest) error
	UpdateTest(ctx context.Context, test *models.DiagnosticTest) error
	DeleteTest(ctx context.Context, id uint) error

	CreateQuestion(ctx context.Context, question *models.DiagnosticQuestion) error
	GetQuestion(ctx context.Context, id uint) (models.DiagnosticQuestion, error)

	SaveAnswers(ctx context.Context, answers []models.DiagnosticAnswer) error
	SaveResult(ctx context.Context, result *models.DiagnosticResult) error
	GetResult(ctx context.Context, testID, studentID uint) (models.DiagnosticResult, error)
	ListResultsByStudent(ctx context.Context, studentID uint) ([]models.DiagnosticResult, error)
	AverageForStudent(ctx context.Context, studentID uint) (float64, error)
}

type diagnosticRepository struct {
	db *gorm.DB
}

// NewDiagnosticRepository instantiates the repository.
func NewDiagnosticRepository(db *gorm.DB) DiagnosticRepository {
	return &diagnosticRepository{db: db}
}

func (r *diagnosticRepository) ListTests(ctx context.Context, teacherID *uint) ([]models.DiagnosticTest, error) {
	query := r.db.WithContext(ctx).Model(&models.DiagnosticTest{})
	if teacherID != nil {
		query = query.Where("docente_id = ?", *teacherID)
	}

	var tests []models.DiagnosticTest
	if err := query.Order("created_at DESC").Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *diagnosticRepository) GetTest(ctx context.Context, id uint) (models.DiagnosticTest, error) {
	var test models.DiagnosticTest
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&test, id).Error; err != nil {
		return models.DiagnosticTest{}, err
	}
	return test, nil
}

func (r *diagnosticRepository) CreateTest(ctx context.Context, test *models.DiagnosticTest) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *diagnosticRepository) UpdateTest(ctx context.Context, test *models.DiagnosticTest) error {
	return r.db.WithContext(ctx).Save(test).Error
}

func (r *diagnosticRepository) DeleteTest(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.DiagnosticTest{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *diagnosticRepository) CreateQuestion(ctx context.Context, question *models.DiagnosticQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *diagnosticRepository) GetQuestion(ctx context.Context, id uint) (models.DiagnosticQuestion, error) {
	var question models.DiagnosticQuestion
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.DiagnosticQuestion{}, err
	}
	return question, nil
}

// SaveAnswers upserts the answer set; re-submitting a question replaces the
// previous answer for that (question, student) pair.
func (r *diagnosticRepository) SaveAnswers(ctx context.Context, answers []models.DiagnosticAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pregunta_id"}, {Name: "estudiante_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"respuesta", "correcta"}),
		}).
		Create(&answers).Error
}

func (r *diagnosticRepository) SaveResult(ctx context.Context, result *models.DiagnosticResult) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "prueba_id"}, {Name: "estudiante_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"correctas", "total", "porcentaje", "categoria", "updated_at"}),
		}).
		Create(result).Error
}

func (r *diagnosticRepository) GetResult(ctx context.Context, testID, studentID uint) (models.DiagnosticResult, error) {
	var result models.DiagnosticResult
	if err := r.db.WithContext(ctx).
		Where("prueba_id = ? AND estudiante_id = ?", testID, studentID).
		First(&result).Error; err != nil {
		return models.DiagnosticResult{}, err
	}
	return result, nil
}

func (r *diagnosticRepository) ListResultsByStudent(ctx context.Context, studentID uint) ([]models.DiagnosticResult, error) {
	var results []models.DiagnosticResult
	if err := r.db.WithContext(ctx).
		Where("estudiante_id = ?", studentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *diagnosticRepository) AverageForStudent(ctx context.Context, studentID uint) (float64, error) {
	var average float64
	if err := r.db.WithContext(ctx).
		Model(&models.DiagnosticResult{}).
		Select("COALESCE(AVG(porcentaje), 0)").
		Where("estudiante_id = ?", studentID).
		Scan(&average).Error; err != nil {
		return 0, err
	}
	return average, nil
}
