package services

import (
	"context"

	"numberhunt/models"

	"gorm.io/gorm"
)

var defaultQuestions = []models.Question{
	{Text: "How many hours do you sleep per night on average?", Category: models.CategoryLifestyle, MinAnswer: 4, MaxAnswer: 12, Difficulty: 1},
	{Text: "How many cups of coffee or tea do you drink daily?", Category: models.CategoryLifestyle, MinAnswer: 0, MaxAnswer: 8, Difficulty: 1},
	{Text: "How many times do you exercise per week?", Category: models.CategoryLifestyle, MinAnswer: 0, MaxAnswer: 7, Difficulty: 1},
	{Text: "How many hours do you spend on your phone daily?", Category: models.CategoryLifestyle, MinAnswer: 1, MaxAnswer: 12, Difficulty: 1},
	{Text: "How many times do you eat out per week?", Category: models.CategoryLifestyle, MinAnswer: 0, MaxAnswer: 14, Difficulty: 1},
	{Text: "How many different apps do you use daily?", Category: models.CategoryLifestyle, MinAnswer: 3, MaxAnswer: 25, Difficulty: 2},
	{Text: "On a scale of 1-10, how much do you enjoy cooking?", Category: models.CategoryPreferences, MinAnswer: 1, MaxAnswer: 10, Difficulty: 1},
	{Text: "On a scale of 1-10, how organized are you?", Category: models.CategoryPreferences, MinAnswer: 1, MaxAnswer: 10, Difficulty: 1},
	{Text: "On a scale of 1-10, how much do you like spicy food?", Category: models.CategoryPreferences, MinAnswer: 1, MaxAnswer: 10, Difficulty: 1},
	{Text: "On a scale of 1-10, how competitive are you?", Category: models.CategoryPreferences, MinAnswer: 1, MaxAnswer: 10, Difficulty: 1},
	{Text: "On a scale of 1-10, how much do you enjoy public speaking?", Category: models.CategoryPreferences, MinAnswer: 1, MaxAnswer: 10, Difficulty: 2},
	{Text: "How many countries have you visited?", Category: models.CategoryExperiences, MinAnswer: 0, MaxAnswer: 40, Difficulty: 1},
	{Text: "How many concerts have you been to?", Category: models.CategoryExperiences, MinAnswer: 0, MaxAnswer: 50, Difficulty: 2},
	{Text: "How many times have you moved house?", Category: models.CategoryExperiences, MinAnswer: 0, MaxAnswer: 15, Difficulty: 1},
	{Text: "How many pets have you owned in your life?", Category: models.CategoryExperiences, MinAnswer: 0, MaxAnswer: 20, Difficulty: 1},
	{Text: "If you won the lottery, how many weeks would you wait before telling anyone?", Category: models.CategoryHypothetical, MinAnswer: 0, MaxAnswer: 52, Difficulty: 2},
	{Text: "How many days could you survive without your phone?", Category: models.CategoryHypothetical, MinAnswer: 0, MaxAnswer: 30, Difficulty: 2},
	{Text: "How many people would you invite to your ideal birthday party?", Category: models.CategoryHypothetical, MinAnswer: 1, MaxAnswer: 100, Difficulty: 1},
	{Text: "How many books do you read per year?", Category: models.CategoryGeneral, MinAnswer: 0, MaxAnswer: 50, Difficulty: 1},
	{Text: "How many close friends do you have?", Category: models.CategoryGeneral, MinAnswer: 1, MaxAnswer: 20, Difficulty: 1},
}

var defaultDecoys = []models.DecoyQuestion{
	{Text: "How many pairs of shoes do you own?", MinAnswer: 1, MaxAnswer: 30},
	{Text: "How many unread emails are in your inbox right now?", MinAnswer: 0, MaxAnswer: 500},
	{Text: "How many houseplants could you keep alive at once?", MinAnswer: 0, MaxAnswer: 20},
	{Text: "On a scale of 1-10, how much do you like rainy days?", MinAnswer: 1, MaxAnswer: 10},
	{Text: "How many hours of TV do you watch per week?", MinAnswer: 0, MaxAnswer: 40},
	{Text: "How many languages would you like to learn?", MinAnswer: 1, MaxAnswer: 10},
	{Text: "How many times do you hit snooze in the morning?", MinAnswer: 0, MaxAnswer: 10},
	{Text: "How many photos do you take per week?", MinAnswer: 0, MaxAnswer: 200},
	{Text: "On a scale of 1-10, how good is your sense of direction?", MinAnswer: 1, MaxAnswer: 10},
	{Text: "How many board games do you own?", MinAnswer: 0, MaxAnswer: 30},
}

// SeedContent loads the built-in question and decoy pools. With replace set, the
// existing pools are deleted first in the same transaction.
func SeedContent(ctx context.Context, db *gorm.DB, replace bool) (questions int, decoys int, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.DecoyQuestion{}).Error; err != nil {
				return err
			}
		}

		qs := make([]models.Question, len(defaultQuestions))
		copy(qs, defaultQuestions)
		for i := range qs {
			qs[i].IsActive = true
		}
		if err := tx.Create(&qs).Error; err != nil {
			return err
		}

		ds := make([]models.DecoyQuestion, len(defaultDecoys))
		copy(ds, defaultDecoys)
		for i := range ds {
			ds[i].IsActive = true
		}
		if err := tx.Create(&ds).Error; err != nil {
			return err
		}

		questions, decoys = len(qs), len(ds)
		return nil
	})
	return questions, decoys, dbError(err, nil)
}

// PromoteAdmin grants the admin flag to an existing user.
func PromoteAdmin(ctx context.Context, db *gorm.DB, username string) error {
	res := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Update("is_admin", true)
	if res.Error != nil {
		return dbError(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
