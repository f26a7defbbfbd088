package services

import (
	"context"
	"strings"

	"numberhunt/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrQuestionNotFound = notFound("question-not-found")
	ErrInvalidQuestion  = precondition("invalid-question")
	ErrInvalidRange     = precondition("min-answer-must-not-exceed-max-answer")
)

var categories = map[string]bool{
	models.CategoryLifestyle:    true,
	models.CategoryPreferences:  true,
	models.CategoryExperiences:  true,
	models.CategoryHypothetical: true,
	models.CategoryGeneral:      true,
}

// QuestionService manages the question and decoy pools that rounds draw from.
type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type CreateQuestionRequest struct {
	Text       string `json:"text" binding:"required"`
	Category   string `json:"category"`
	MinAnswer  int    `json:"min_answer"`
	MaxAnswer  int    `json:"max_answer" binding:"required"`
	Difficulty int    `json:"difficulty"`
	IsActive   *bool  `json:"is_active"`
	Decoy      bool   `json:"decoy"`
}

type Pool struct {
	Questions []models.Question      `json:"questions"`
	Decoys    []models.DecoyQuestion `json:"decoys"`
}

// ListPool returns both pools. Inactive items are included only when asked for.
func (s *QuestionService) ListPool(ctx context.Context, includeInactive bool) (*Pool, error) {
	pool := &Pool{Questions: []models.Question{}, Decoys: []models.DecoyQuestion{}}

	scope := func(db *gorm.DB) *gorm.DB {
		if includeInactive {
			return db.Order("id")
		}
		return db.Where("is_active = ?", true).Order("id")
	}

	db := s.db.WithContext(ctx)
	if err := db.Scopes(scope).Find(&pool.Questions).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if err := db.Scopes(scope).Find(&pool.Decoys).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return pool, nil
}

// CreateQuestion adds a question, or a decoy when req.Decoy is set. The created row is
// returned as either *models.Question or *models.DecoyQuestion.
func (s *QuestionService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (interface{}, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrInvalidQuestion
	}
	if req.MinAnswer > req.MaxAnswer {
		return nil, ErrInvalidRange
	}
	active := req.IsActive == nil || *req.IsActive

	db := s.db.WithContext(ctx)

	if req.Decoy {
		decoy := models.DecoyQuestion{Text: text, MinAnswer: req.MinAnswer, MaxAnswer: req.MaxAnswer, IsActive: active}
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&decoy).Error; err != nil {
				return err
			}
			// is_active has a database default, so false must be written explicitly.
			if !active {
				return tx.Model(&decoy).Update("is_active", false).Error
			}
			return nil
		}); err != nil {
			return nil, dbError(err, nil)
		}
		log.Info().Uint("decoy", decoy.ID).Msg("decoy question created")
		return &decoy, nil
	}

	category := req.Category
	if category == "" {
		category = models.CategoryGeneral
	}
	if !categories[category] {
		return nil, ErrInvalidQuestion
	}
	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}

	question := models.Question{
		Text:       text,
		Category:   category,
		MinAnswer:  req.MinAnswer,
		MaxAnswer:  req.MaxAnswer,
		Difficulty: difficulty,
		IsActive:   active,
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		if !active {
			return tx.Model(&question).Update("is_active", false).Error
		}
		return nil
	}); err != nil {
		return nil, dbError(err, nil)
	}

	log.Info().Uint("question", question.ID).Str("category", category).Msg("question created")
	return &question, nil
}

// SetActive toggles whether an item can be drawn. Rounds already holding it are unaffected.
func (s *QuestionService) SetActive(ctx context.Context, id uint, decoy, active bool) error {
	var model interface{} = &models.Question{}
	if decoy {
		model = &models.DecoyQuestion{}
	}

	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return dbError(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
