package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tazabolsyn/cleaning-app/services"
	"github.com/tazabolsyn/cleaning-app/utils"
	"gorm.io/gorm"
)

type CleanerController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewCleanerController(db *gorm.DB) *CleanerController {
	return &CleanerController{DB: db, Orders: services.NewOrderService(db)}
}

// ListAvailableOrders -> order pending yang belum diambil siapa pun
func (cc *CleanerController) ListAvailableOrders(c *gin.Context) {
	orders, err := cc.Orders.ListAvailableOrders()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available orders", orders)
}

// TakeOrder -> cleaner meng-claim order pending.
// Satu cleaner maksimal memegang satu order aktif.
func (cc *CleanerController) TakeOrder(c *gin.Context) {
	user, err := currentUser(c, cc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	orderID, _ := strconv.Atoi(c.Param("order_id"))

	order, err := cc.Orders.TakeOrder(user, uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCleanerBusy):
			utils.RespondError(c, http.StatusConflict, err)
		case errors.Is(err, services.ErrOrderNotAvailable):
			utils.RespondError(c, http.StatusConflict, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order accepted", order)
}

// ListAssignedOrders -> order yang di-assign ke cleaner saat ini
func (cc *CleanerController) ListAssignedOrders(c *gin.Context) {
	user, err := currentUser(c, cc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	orders, err := cc.Orders.ListOrdersByCleaner(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Assigned orders", orders)
}

// UpdateOrderStatus -> cleaner memajukan status order miliknya satu langkah
func (cc *CleanerController) UpdateOrderStatus(c *gin.Context) {
	user, err := currentUser(c, cc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := cc.Orders.UpdateStatusByCleaner(user.ID, uint(orderID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidStatus):
			utils.RespondError(c, http.StatusBadRequest, err)
		case strings.HasPrefix(err.Error(), "invalid transition"):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
