package db

import (
	"github.com/diewo77/go-profiles/internal/models"
	"gorm.io/gorm"
)

// ResetProfiles deletes the profiles with the given codes together with their
// translations and bindings. Test fixtures use it to start from a known state.
func ResetProfiles(db *gorm.DB, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Profile{}).Where("code IN ?", codes).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("profile_id IN ?", ids).Update("profile_id", nil).Error; err != nil {
			return err
		}
		for _, model := range []any{&models.ProfileResource{}, &models.ProfileModule{}, &models.ProfileI18n{}} {
			if err := tx.Where("profile_id IN ?", ids).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("id IN ?", ids).Delete(&models.Profile{}).Error
	})
}
