package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tazabolsyn/cleaning-app/models"
)

func TestFeedbackRules(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	customer := seedUserWithPassword(t, db, "cust@example.com", "user", "password123")
	stranger := seedUserWithPassword(t, db, "stranger@example.com", "user", "password123")
	token := tokenFor(t, customer)

	order := models.Order{
		UserID:  customer.ID,
		Status:  models.OrderStatusAccepted,
		Address: "Abay Ave 10",
		City:    "Almaty",
	}
	assert.NoError(t, db.Create(&order).Error)

	// Order belum selesai -> feedback ditolak
	w := doJSON(t, r, "POST", "/users/me/feedback", map[string]interface{}{
		"order_id": order.ID,
		"rating":   5,
		"comment":  "great",
	}, token)
	assertStatus(t, w, http.StatusBadRequest)

	assert.NoError(t, db.Model(&order).Update("status", models.OrderStatusFinished).Error)

	// Order selesai -> feedback diterima
	w = doJSON(t, r, "POST", "/users/me/feedback", map[string]interface{}{
		"order_id": order.ID,
		"rating":   5,
		"comment":  "great",
	}, token)
	assertStatus(t, w, http.StatusCreated)

	// Satu feedback per (order, customer): duplikat ditolak
	w = doJSON(t, r, "POST", "/users/me/feedback", map[string]interface{}{
		"order_id": order.ID,
		"rating":   4,
		"comment":  "still great",
	}, token)
	assertStatus(t, w, http.StatusConflict)

	// Order orang lain -> 404, tidak dibedakan dari order yang tidak ada
	w = doJSON(t, r, "POST", "/users/me/feedback", map[string]interface{}{
		"order_id": order.ID,
		"rating":   5,
		"comment":  "not mine",
	}, tokenFor(t, stranger))
	assertStatus(t, w, http.StatusNotFound)

	// Rating di luar 1..5 ditolak validasi
	w = doJSON(t, r, "POST", "/users/me/feedback", map[string]interface{}{
		"order_id": order.ID,
		"rating":   6,
		"comment":  "too good",
	}, token)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestFeedbackOnPaidOrder(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	customer := seedUserWithPassword(t, db, "cust@example.com", "user", "password123")
	token := tokenFor(t, customer)

	order := models.Order{
		UserID:  customer.ID,
		Status:  models.OrderStatusPaid,
		Address: "Abay Ave 10",
		City:    "Almaty",
	}
	assert.NoError(t, db.Create(&order).Error)

	w := doJSON(t, r, "POST", "/users/me/feedback", map[string]interface{}{
		"order_id": order.ID,
		"rating":   4,
		"comment":  "paid and done",
	}, token)
	assertStatus(t, w, http.StatusCreated)
}
