package services

import (
	"errors"
	"fmt"

	"github.com/tazabolsyn/cleaning-app/models"
	"github.com/tazabolsyn/cleaning-app/utils"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder        = errors.New("at least one service must be selected")
	ErrCleanerBusy       = errors.New("cleaner already has an active order")
	ErrOrderNotAvailable = errors.New("order is not available")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidCleaner    = errors.New("cleaner user not found or not a cleaner")
)

// allowedTransitions: tabel transisi forward-only untuk cleaner.
// finished dan paid tidak punya transisi keluar.
var allowedTransitions = map[string]string{
	models.OrderStatusPending:  models.OrderStatusAccepted,
	models.OrderStatusAccepted: models.OrderStatusGoing,
	models.OrderStatusGoing:    models.OrderStatusStarted,
	models.OrderStatusStarted:  models.OrderStatusFinished,
}

var allStatuses = []string{
	models.OrderStatusPending,
	models.OrderStatusAccepted,
	models.OrderStatusGoing,
	models.OrderStatusStarted,
	models.OrderStatusFinished,
	models.OrderStatusPaid,
}

func IsValidStatus(status string) bool {
	for _, s := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type OrderItemInput struct {
	ServiceName string  `json:"service_name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"min=0"`
}

type CreateOrderInput struct {
	PropertyType *string          `json:"property_type"`
	Rooms        *int             `json:"rooms"`
	Bathrooms    *int             `json:"bathrooms"`
	CleaningType *string          `json:"cleaning_type"`
	Address      string           `json:"address" binding:"required"`
	Apartment    *string          `json:"apartment"`
	City         string           `json:"city"`
	Phone        string           `json:"phone"`
	Latitude     *float64         `json:"latitude"`
	Longitude    *float64         `json:"longitude"`
	Items        []OrderItemInput `json:"items" binding:"required,dive"`
}

// CreateOrder membuat order baru untuk user beserta item-nya.
// Total dihitung sekali dari price*quantity, reward points (1 poin per 1000)
// ditambahkan ke user dalam transaksi yang sama dengan insert order.
func (s *OrderService) CreateOrder(user *models.User, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var total float64
	for _, item := range input.Items {
		total += item.Price * float64(item.Quantity)
	}

	city := input.City
	if city == "" {
		city = user.City
	}

	order := models.Order{
		UserID:       user.ID,
		CleanerID:    nil,
		Status:       models.OrderStatusPending,
		TotalPrice:   total,
		PropertyType: input.PropertyType,
		Rooms:        input.Rooms,
		Bathrooms:    input.Bathrooms,
		CleaningType: input.CleaningType,
		Address:      input.Address,
		Apartment:    input.Apartment,
		City:         city,
		Phone:        input.Phone,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
	}

	points := int(total / 1000)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range input.Items {
			orderItem := models.OrderItem{
				OrderID:     order.ID,
				ServiceName: item.ServiceName,
				Quantity:    item.Quantity,
				Price:       item.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}

		if points > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
				UpdateColumn("reward_points", gorm.Expr("reward_points + ?", points)).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Items").First(&order, order.ID).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order #%d created by user %d, total=%.2f, points=%d",
		order.ID, user.ID, total, points)

	return &order, nil
}

// countActiveOrders menghitung order cleaner yang masih accepted/going/started.
func (s *OrderService) countActiveOrders(tx *gorm.DB, cleanerID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Order{}).
		Where("cleaner_id = ? AND status IN ?", cleanerID, models.ActiveStatuses).
		Count(&count).Error
	return count, err
}

// TakeOrder meng-claim order pending yang belum di-assign untuk cleaner.
// Guard concurrency satu-satunya adalah conditional update:
// baris order hanya berubah jika cleaner_id masih NULL dan status masih pending,
// jadi dua claim bersamaan tidak mungkin dua-duanya sukses.
func (s *OrderService) TakeOrder(cleaner *models.User, orderID uint) (*models.Order, error) {
	var claimed models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		active, err := s.countActiveOrders(tx, cleaner.ID)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrCleanerBusy
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND cleaner_id IS NULL AND status = ?", orderID, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"cleaner_id": cleaner.ID,
				"status":     models.OrderStatusAccepted,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotAvailable
		}

		if err := tx.Model(&models.Cleaner{}).Where("user_id = ?", cleaner.ID).
			Update("availability", false).Error; err != nil {
			return err
		}

		return tx.Preload("Items").First(&claimed, orderID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order #%d claimed by cleaner %d", claimed.ID, cleaner.ID)
	return &claimed, nil
}

// UpdateStatusByCleaner memproses transisi status yang diminta cleaner.
// Hanya order milik cleaner tersebut; transisi harus maju satu langkah.
// Minta status yang sama dengan sekarang dianggap no-op sukses.
func (s *OrderService) UpdateStatusByCleaner(cleanerID uint, orderID uint, newStatus string) (*models.Order, error) {
	if !IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var order models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Where("id = ? AND cleaner_id = ?", orderID, cleanerID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Status == newStatus {
			// idempotent no-op
			return nil
		}

		if next, ok := allowedTransitions[order.Status]; !ok || next != newStatus {
			return fmt.Errorf("invalid transition: %s->%s", order.Status, newStatus)
		}

		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return err
		}
		order.Status = newStatus

		if newStatus == models.OrderStatusFinished {
			return s.recomputeAvailability(tx, cleanerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// recomputeAvailability: cleaner kembali available hanya jika
// tidak ada order aktif lain yang dipegangnya.
func (s *OrderService) recomputeAvailability(tx *gorm.DB, cleanerID uint) error {
	active, err := s.countActiveOrders(tx, cleanerID)
	if err != nil {
		return err
	}
	return tx.Model(&models.Cleaner{}).Where("user_id = ?", cleanerID).
		Update("availability", active == 0).Error
}

type AdminOrderUpdate struct {
	Status    *string `json:"status"`
	CleanerID *uint   `json:"cleaner_id"`
}

// AdminUpdateOrder: admin boleh set status apa pun tanpa tabel transisi,
// dan opsional re-assign cleaner. Availability sengaja TIDAK dihitung ulang
// di jalur admin (keputusan produk yang dipertahankan apa adanya).
func (s *OrderService) AdminUpdateOrder(orderID uint, update AdminOrderUpdate) (*models.Order, error) {
	var order models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		changes := map[string]interface{}{}

		if update.Status != nil {
			if !IsValidStatus(*update.Status) {
				return ErrInvalidStatus
			}
			changes["status"] = *update.Status
		}

		if update.CleanerID != nil {
			var cleanerUser models.User
			if err := tx.First(&cleanerUser, *update.CleanerID).Error; err != nil || cleanerUser.Role != "cleaner" {
				return ErrInvalidCleaner
			}
			changes["cleaner_id"] = *update.CleanerID
		}

		if len(changes) == 0 {
			return nil
		}

		if err := tx.Model(&order).Updates(changes).Error; err != nil {
			return err
		}
		if update.Status != nil {
			order.Status = *update.Status
		}
		if update.CleanerID != nil {
			order.CleanerID = update.CleanerID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ListAvailableOrders -> order pending yang belum di-assign, terbaru dulu.
func (s *OrderService) ListAvailableOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").
		Where("cleaner_id IS NULL AND status = ?", models.OrderStatusPending).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListOrdersByCleaner -> order yang di-assign ke cleaner, terbaru dulu.
func (s *OrderService) ListOrdersByCleaner(cleanerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").
		Where("cleaner_id = ?", cleanerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListOrdersByUser -> riwayat order customer, terbaru dulu.
func (s *OrderService) ListOrdersByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListAllOrders -> listing admin dengan filter opsional status dan city.
func (s *OrderService) ListAllOrders(statusFilter, cityFilter string) ([]models.Order, error) {
	query := s.DB.Preload("Items")
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}
	if cityFilter != "" {
		query = query.Where("city = ?", cityFilter)
	}

	var orders []models.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}
