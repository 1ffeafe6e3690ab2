package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazabolsyn/cleaning-app/models"
	"github.com/tazabolsyn/cleaning-app/utils"
	"gorm.io/gorm"
)

type FeedbackController struct {
	DB *gorm.DB
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{DB: db}
}

// CreateFeedback -> satu feedback per (order, customer), hanya untuk
// order milik sendiri yang sudah finished/paid.
func (fc *FeedbackController) CreateFeedback(c *gin.Context) {
	user, err := currentUser(c, fc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		OrderID uint   `json:"order_id" binding:"required"`
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := fc.DB.Where("id = ? AND user_id = ?", req.OrderID, user.ID).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found or does not belong to you"))
		return
	}

	if !order.IsCompleted() {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("Feedback can only be submitted for completed orders (finished or paid)"))
		return
	}

	var existing models.Feedback
	if err := fc.DB.Where("order_id = ? AND user_id = ?", req.OrderID, user.ID).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("Feedback already submitted for this order"))
		return
	}

	feedback := models.Feedback{
		OrderID: req.OrderID,
		UserID:  user.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := fc.DB.Create(&feedback).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Feedback submitted", feedback)
}
