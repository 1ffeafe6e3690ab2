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

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, Orders: services.NewOrderService(db)}
}

// CreateOrder -> customer membuat order cleaning baru (status pending).
// Harga per item sudah disesuaikan per kota di frontend, dipakai apa adanya.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.CreateOrder(user, input)
	if err != nil {
		if errors.Is(err, services.ErrEmptyOrder) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail satu order milik user saat ini.
// Order orang lain dibalas 404, tidak dibedakan dari order yang tidak ada.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	query := oc.DB.Preload("Items").Where("id = ?", orderID)
	if user.Role != "admin" {
		query = query.Where("user_id = ? OR cleaner_id = ?", user.ID, user.ID)
	}
	if err := query.First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}
