package services

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tazabolsyn/cleaning-app/models"
	"github.com/tazabolsyn/cleaning-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB -> SQLite in-memory + migrasi model. DSN diberi nama per test
// supaya tiap test dapat database sendiri. MaxOpenConns(1) supaya transaksi
// dari goroutine berbeda antre di satu koneksi, tanpa error lock dari SQLite.
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Cleaner{},
		&models.Order{},
		&models.OrderItem{},
		&models.Feedback{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	hash, err := utils.HashPassword("secret123")
	assert.NoError(t, err)

	user := models.User{
		Name:         "Test",
		Surname:      "User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		City:         "Almaty",
	}
	assert.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCleaner(t *testing.T, db *gorm.DB, email string) *models.User {
	user := seedUser(t, db, email, "cleaner")
	assert.NoError(t, db.Create(&models.Cleaner{UserID: user.ID, Availability: true}).Error)
	return user
}

func pendingOrderInput() CreateOrderInput {
	return CreateOrderInput{
		Address: "Abay Ave 10",
		City:    "Almaty",
		Phone:   "+77001234567",
		Items: []OrderItemInput{
			{ServiceName: "Standard cleaning", Quantity: 2, Price: 5000},
			{ServiceName: "Window washing", Quantity: 1, Price: 3000},
		},
	}
}

func TestCreateOrderTotalAndRewardPoints(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, "customer@example.com", "user")

	order, err := svc.CreateOrder(user, pendingOrderInput())
	assert.NoError(t, err)

	// 5000*2 + 3000*1 = 13000
	assert.Equal(t, float64(13000), order.TotalPrice)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Nil(t, order.CleanerID)
	assert.Len(t, order.Items, 2)

	// 1 poin per 1000 -> 13 poin, ditambahkan dalam transaksi yang sama
	var refreshed models.User
	assert.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, 13, refreshed.RewardPoints)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, "customer@example.com", "user")

	input := pendingOrderInput()
	input.Items = nil

	_, err := svc.CreateOrder(user, input)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestTakeOrderClaim(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	cleaner := seedCleaner(t, db, "cleaner@example.com")

	order, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)

	claimed, err := svc.TakeOrder(cleaner, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, claimed.Status)
	assert.NotNil(t, claimed.CleanerID)
	assert.Equal(t, cleaner.ID, *claimed.CleanerID)

	// Availability ikut turun dalam transaksi claim
	var profile models.Cleaner
	assert.NoError(t, db.Where("user_id = ?", cleaner.ID).First(&profile).Error)
	assert.False(t, profile.Availability)
}

func TestTakeOrderAlreadyAssigned(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	first := seedCleaner(t, db, "cleaner1@example.com")
	second := seedCleaner(t, db, "cleaner2@example.com")

	order, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)

	_, err = svc.TakeOrder(first, order.ID)
	assert.NoError(t, err)

	_, err = svc.TakeOrder(second, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotAvailable)
}

func TestTakeOrderMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	cleaner := seedCleaner(t, db, "cleaner@example.com")

	_, err := svc.TakeOrder(cleaner, 9999)
	assert.ErrorIs(t, err, ErrOrderNotAvailable)
}

func TestTakeOrderCleanerBusy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	cleaner := seedCleaner(t, db, "cleaner@example.com")

	first, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)
	second, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)

	_, err = svc.TakeOrder(cleaner, first.ID)
	assert.NoError(t, err)

	// Masih memegang order aktif -> tidak boleh claim lagi
	_, err = svc.TakeOrder(cleaner, second.ID)
	assert.ErrorIs(t, err, ErrCleanerBusy)
}

// Dua claim bersamaan pada order pending yang sama: tepat satu sukses.
func TestTakeOrderConcurrentClaims(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	first := seedCleaner(t, db, "cleaner1@example.com")
	second := seedCleaner(t, db, "cleaner2@example.com")

	order, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	cleaners := []*models.User{first, second}

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, results[idx] = svc.TakeOrder(cleaners[idx], order.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	failures := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			failures++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)

	var claimed models.Order
	assert.NoError(t, db.First(&claimed, order.ID).Error)
	assert.Equal(t, models.OrderStatusAccepted, claimed.Status)
	assert.NotNil(t, claimed.CleanerID)
}

func TestCleanerTransitions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	cleaner := seedCleaner(t, db, "cleaner@example.com")

	order, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)
	_, err = svc.TakeOrder(cleaner, order.ID)
	assert.NoError(t, err)

	// Lompat satu langkah ditolak, dengan pasangan from->to di pesan
	_, err = svc.UpdateStatusByCleaner(cleaner.ID, order.ID, models.OrderStatusStarted)
	assert.Error(t, err)
	assert.Equal(t, "invalid transition: accepted->started", err.Error())

	// Status yang sama -> no-op sukses
	updated, err := svc.UpdateStatusByCleaner(cleaner.ID, order.ID, models.OrderStatusAccepted)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, updated.Status)

	// Jalur maju normal
	for _, next := range []string{
		models.OrderStatusGoing,
		models.OrderStatusStarted,
		models.OrderStatusFinished,
	} {
		updated, err = svc.UpdateStatusByCleaner(cleaner.ID, order.ID, next)
		assert.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// finished tidak punya transisi keluar untuk cleaner
	_, err = svc.UpdateStatusByCleaner(cleaner.ID, order.ID, models.OrderStatusPaid)
	assert.Error(t, err)
	assert.Equal(t, "invalid transition: finished->paid", err.Error())

	// Setelah finished, availability kembali true karena tidak ada order aktif lain
	var profile models.Cleaner
	assert.NoError(t, db.Where("user_id = ?", cleaner.ID).First(&profile).Error)
	assert.True(t, profile.Availability)
}

func TestCleanerTransitionNotOwnOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	owner := seedCleaner(t, db, "cleaner1@example.com")
	other := seedCleaner(t, db, "cleaner2@example.com")

	order, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)
	_, err = svc.TakeOrder(owner, order.ID)
	assert.NoError(t, err)

	// Order orang lain tidak bisa dibedakan dari order yang tidak ada
	_, err = svc.UpdateStatusByCleaner(other.ID, order.ID, models.OrderStatusGoing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAdminUpdateOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	cleaner := seedCleaner(t, db, "cleaner@example.com")

	order, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)
	_, err = svc.TakeOrder(cleaner, order.ID)
	assert.NoError(t, err)

	// Admin bebas set status tanpa tabel transisi: accepted -> paid langsung
	paid := models.OrderStatusPaid
	updated, err := svc.AdminUpdateOrder(order.ID, AdminOrderUpdate{Status: &paid})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)

	// Jalur admin TIDAK menghitung ulang availability (asimetri yang
	// dipertahankan): cleaner tetap false meski ordernya sudah paid
	var profile models.Cleaner
	assert.NoError(t, db.Where("user_id = ?", cleaner.ID).First(&profile).Error)
	assert.False(t, profile.Availability)
}

func TestAdminReassignCleaner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	cleaner := seedCleaner(t, db, "cleaner@example.com")
	plainUser := seedUser(t, db, "plain@example.com", "user")

	order, err := svc.CreateOrder(customer, pendingOrderInput())
	assert.NoError(t, err)

	// Re-assign ke user yang bukan cleaner ditolak
	_, err = svc.AdminUpdateOrder(order.ID, AdminOrderUpdate{CleanerID: &plainUser.ID})
	assert.ErrorIs(t, err, ErrInvalidCleaner)

	// Ke user tidak dikenal juga ditolak
	unknown := uint(9999)
	_, err = svc.AdminUpdateOrder(order.ID, AdminOrderUpdate{CleanerID: &unknown})
	assert.ErrorIs(t, err, ErrInvalidCleaner)

	updated, err := svc.AdminUpdateOrder(order.ID, AdminOrderUpdate{CleanerID: &cleaner.ID})
	assert.NoError(t, err)
	assert.Equal(t, cleaner.ID, *updated.CleanerID)
}

func TestListings(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	customer := seedUser(t, db, "customer@example.com", "user")
	cleaner := seedCleaner(t, db, "cleaner@example.com")

	var orderIDs []uint
	for i := 0; i < 3; i++ {
		order, err := svc.CreateOrder(customer, pendingOrderInput())
		assert.NoError(t, err)
		// Paksa created_at berbeda supaya urutan DESC terlihat
		created := time.Now().Add(time.Duration(i) * time.Minute)
		assert.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("created_at", created).Error)
		orderIDs = append(orderIDs, order.ID)
	}

	available, err := svc.ListAvailableOrders()
	assert.NoError(t, err)
	assert.Len(t, available, 3)
	// Terbaru dulu
	assert.Equal(t, orderIDs[2], available[0].ID)
	assert.Equal(t, orderIDs[0], available[2].ID)

	_, err = svc.TakeOrder(cleaner, orderIDs[1])
	assert.NoError(t, err)

	available, err = svc.ListAvailableOrders()
	assert.NoError(t, err)
	assert.Len(t, available, 2)

	mine, err := svc.ListOrdersByCleaner(cleaner.ID)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, orderIDs[1], mine[0].ID)

	history, err := svc.ListOrdersByUser(customer.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 3)

	filtered, err := svc.ListAllOrders(models.OrderStatusAccepted, "")
	assert.NoError(t, err)
	assert.Len(t, filtered, 1)

	filtered, err = svc.ListAllOrders("", "Almaty")
	assert.NoError(t, err)
	assert.Len(t, filtered, 3)

	filtered, err = svc.ListAllOrders("", "Astana")
	assert.NoError(t, err)
	assert.Len(t, filtered, 0)
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "going", "started", "finished", "paid"} {
		assert.True(t, IsValidStatus(s), fmt.Sprintf("status %s should be valid", s))
	}
	assert.False(t, IsValidStatus("cancelled"))
	assert.False(t, IsValidStatus(""))
}
