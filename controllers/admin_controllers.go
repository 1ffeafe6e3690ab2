package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tazabolsyn/cleaning-app/models"
	"github.com/tazabolsyn/cleaning-app/services"
	"github.com/tazabolsyn/cleaning-app/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db, Orders: services.NewOrderService(db)}
}

// ListUsers -> semua user (admin only)
func (ad *AdminController) ListUsers(c *gin.Context) {
	var users []models.User
	if err := ad.DB.Preload("Addresses").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	payload := make([]gin.H, 0, len(users))
	for i := range users {
		payload = append(payload, userPayload(&users[i]))
	}

	utils.RespondJSON(c, http.StatusOK, "All users", payload)
}

// PromoteCleaner -> jadikan user yang sudah ada sebagai cleaner
// dan buat profil Cleaner 1:1-nya.
func (ad *AdminController) PromoteCleaner(c *gin.Context) {
	var req struct {
		UserID       uint  `json:"user_id" binding:"required"`
		Availability *bool `json:"availability"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ad.DB.Preload("CleanerProfile").First(&user, req.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("User not found"))
		return
	}

	if user.CleanerProfile != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("Cleaner profile already exists for this user"))
		return
	}

	availability := true
	if req.Availability != nil {
		availability = *req.Availability
	}

	cleaner := models.Cleaner{UserID: user.ID, Availability: availability}

	err := ad.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("role", "cleaner").Error; err != nil {
			return err
		}
		return tx.Create(&cleaner).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %d promoted to cleaner", user.ID)
	utils.RespondJSON(c, http.StatusCreated, "Cleaner created", gin.H{
		"id":           cleaner.ID,
		"user_id":      cleaner.UserID,
		"availability": cleaner.Availability,
	})
}

// CreateCleanerAccount -> buat akun cleaner baru sekaligus profilnya
func (ad *AdminController) CreateCleanerAccount(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=100"`
		Surname  string `json:"surname" binding:"required,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		City     string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.User
	if err := ad.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Email is already registered"))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		City:         req.City,
		PasswordHash: hashed,
		Role:         "cleaner",
	}

	err = ad.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Cleaner{UserID: user.ID, Availability: true}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Cleaner account created: %s", user.Email)
	utils.RespondJSON(c, http.StatusCreated, "Cleaner account created", userPayload(&user))
}

// ListCleaners -> semua cleaner beserta info user-nya
func (ad *AdminController) ListCleaners(c *gin.Context) {
	var cleaners []models.Cleaner
	if err := ad.DB.Preload("User").Preload("User.Addresses").Find(&cleaners).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	payload := make([]gin.H, 0, len(cleaners))
	for i := range cleaners {
		payload = append(payload, gin.H{
			"id":           cleaners[i].ID,
			"user_id":      cleaners[i].UserID,
			"availability": cleaners[i].Availability,
			"user":         userPayload(&cleaners[i].User),
		})
	}

	utils.RespondJSON(c, http.StatusOK, "All cleaners", payload)
}

// ListOrders -> listing admin dengan filter opsional ?status= dan ?city=
func (ad *AdminController) ListOrders(c *gin.Context) {
	statusFilter := c.Query("status")
	cityFilter := c.Query("city")

	orders, err := ad.Orders.ListAllOrders(statusFilter, cityFilter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateOrder -> admin set status bebas dan/atau re-assign cleaner
func (ad *AdminController) UpdateOrder(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var update services.AdminOrderUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := ad.Orders.AdminUpdateOrder(uint(orderID), update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidCleaner), errors.Is(err, services.ErrInvalidStatus):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}
