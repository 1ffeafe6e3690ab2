package database

import (
	"github.com/tazabolsyn/cleaning-app/models"
	"github.com/tazabolsyn/cleaning-app/utils"
	"gorm.io/gorm"
)

// ApplyMigrations menjalankan migrasi tambahan setelah AutoMigrate.
// Skema hanya berubah aditif (kolom nullable baru + backfill), tidak pernah
// destruktif, supaya rolling deployment tetap kompatibel.
func ApplyMigrations(db *gorm.DB) error {
	// Kolom 2FA ditambahkan setelah rilis awal; user lama dianggap belum aktif
	if db.Migrator().HasColumn(&models.User{}, "is_totp_enabled") {
		if err := db.Exec("UPDATE users SET is_totp_enabled = ? WHERE is_totp_enabled IS NULL", false).Error; err != nil {
			return err
		}
	}

	// reward_points lama bisa NULL, normalkan ke 0
	if db.Migrator().HasColumn(&models.User{}, "reward_points") {
		if err := db.Exec("UPDATE users SET reward_points = 0 WHERE reward_points IS NULL").Error; err != nil {
			return err
		}
	}

	utils.InfoLogger.Println("Additive migrations applied.")
	return nil
}
