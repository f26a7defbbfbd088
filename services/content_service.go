package services

import (
	"numberhunt/models"

	"gorm.io/gorm"
)

// ContentProvider draws round content. Implementations run on the caller's transaction.
type ContentProvider interface {
	DrawActiveQuestion(tx *gorm.DB) (*models.Question, error)
	DrawActiveDecoy(tx *gorm.DB) (*models.DecoyQuestion, error)
}

type ContentService struct {
	rng Randomizer
}

func NewContentService(rng Randomizer) *ContentService {
	return &ContentService{rng: rng}
}

func (s *ContentService) DrawActiveQuestion(tx *gorm.DB) (*models.Question, error) {
	var ids []uint
	if err := tx.Model(&models.Question{}).Where("is_active = ?", true).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if len(ids) == 0 {
		return nil, ErrNoContentAvailable
	}

	var q models.Question
	if err := tx.First(&q, ids[s.rng.IntN(len(ids))]).Error; err != nil {
		return nil, dbError(err, ErrNoContentAvailable)
	}
	return &q, nil
}

func (s *ContentService) DrawActiveDecoy(tx *gorm.DB) (*models.DecoyQuestion, error) {
	var ids []uint
	if err := tx.Model(&models.DecoyQuestion{}).Where("is_active = ?", true).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if len(ids) == 0 {
		return nil, ErrNoContentAvailable
	}

	var d models.DecoyQuestion
	if err := tx.First(&d, ids[s.rng.IntN(len(ids))]).Error; err != nil {
		return nil, dbError(err, ErrNoContentAvailable)
	}
	return &d, nil
}
