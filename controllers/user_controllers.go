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

type UserController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Orders: services.NewOrderService(db)}
}

// GetProfile -> profil user saat ini, termasuk alamat dan reward points
func (uc *UserController) GetProfile(c *gin.Context) {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", userPayload(user))
}

// UpdateProfile -> update nama, surname, phone, city
func (uc *UserController) UpdateProfile(c *gin.Context) {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Surname *string `json:"surname"`
		Phone   *string `json:"phone"`
		City    *string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.City != nil {
		user.City = *req.City
	}

	if err := uc.DB.Save(user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile updated", userPayload(user))
}

// ListAddresses -> alamat tersimpan milik user
func (uc *UserController) ListAddresses(c *gin.Context) {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var addresses []models.Address
	if err := uc.DB.Where("user_id = ?", user.ID).Find(&addresses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Addresses", addresses)
}

// AddAddress -> tambah alamat baru untuk user
func (uc *UserController) AddAddress(c *gin.Context) {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		Address   string   `json:"address" binding:"required,max=255"`
		Apartment *string  `json:"apartment"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	addr := models.Address{
		UserID:    user.ID,
		Address:   req.Address,
		Apartment: req.Apartment,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := uc.DB.Create(&addr).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Address added", addr)
}

// DeleteAddress -> hapus alamat; hanya pemilik yang boleh
func (uc *UserController) DeleteAddress(c *gin.Context) {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	addressID, _ := strconv.Atoi(c.Param("address_id"))

	var addr models.Address
	if err := uc.DB.Where("id = ? AND user_id = ?", addressID, user.ID).First(&addr).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Address not found"))
		return
	}

	if err := uc.DB.Delete(&addr).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Address deleted", gin.H{"address_id": addr.ID})
}

// ListMyOrders -> riwayat order user saat ini, terbaru dulu
func (uc *UserController) ListMyOrders(c *gin.Context) {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	orders, err := uc.Orders.ListOrdersByUser(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order history", orders)
}
