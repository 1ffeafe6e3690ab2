package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tazabolsyn/cleaning-app/models"
	"gorm.io/gorm"
)

// currentUser mengambil user dari user_id yang diset auth middleware.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		return nil, errors.New("user id not found in context")
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		return nil, errors.New("invalid user id type")
	}

	var user models.User
	if err := db.Preload("Addresses").First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// userPayload menyusun profil user untuk response (tanpa hash/secret).
func userPayload(user *models.User) gin.H {
	addresses := make([]gin.H, 0, len(user.Addresses))
	for _, a := range user.Addresses {
		addresses = append(addresses, gin.H{
			"id":        a.ID,
			"address":   a.Address,
			"apartment": a.Apartment,
			"latitude":  a.Latitude,
			"longitude": a.Longitude,
		})
	}

	return gin.H{
		"id":                 user.ID,
		"name":               user.Name,
		"surname":            user.Surname,
		"email":              user.Email,
		"phone":              user.Phone,
		"role":               user.Role,
		"city":               user.City,
		"reward_points":      user.RewardPoints,
		"totp_enabled":       user.TotpActive(),
		"totp_setup_pending": user.TotpSetupPending(),
		"addresses":          addresses,
	}
}
