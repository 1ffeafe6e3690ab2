package models

import "time"

// Status lifecycle order: pending -> accepted -> going -> started -> finished -> paid
const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusGoing    = "going"
	OrderStatusStarted  = "started"
	OrderStatusFinished = "finished"
	OrderStatusPaid     = "paid"
)

// ActiveStatuses: order yang masih dipegang cleaner, menghitung limit satu-order-aktif
var ActiveStatuses = []string{OrderStatusAccepted, OrderStatusGoing, OrderStatusStarted}

type Order struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CleanerID *uint  `gorm:"index" json:"cleaner_id,omitempty"`
	Cleaner   *User  `gorm:"foreignKey:CleanerID;references:ID" json:"cleaner,omitempty"`
	Status    string `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`

	// TotalPrice dihitung sekali saat create, tidak berubah setelahnya
	TotalPrice float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_price"`

	// Snapshot detail order - disalin saat create, tidak mengikuti edit profil/alamat
	PropertyType *string  `gorm:"type:varchar(50)" json:"property_type,omitempty"` // Apartment / Private House
	Rooms        *int     `json:"rooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	CleaningType *string  `gorm:"type:varchar(50)" json:"cleaning_type,omitempty"`
	Address      string   `gorm:"type:varchar(255);not null" json:"address"`
	Apartment    *string  `gorm:"type:varchar(50)" json:"apartment,omitempty"`
	City         string   `gorm:"type:varchar(120)" json:"city"`
	Phone        string   `gorm:"type:varchar(50)" json:"phone"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// IsActive -> status termasuk accepted/going/started
func (o *Order) IsActive() bool {
	for _, s := range ActiveStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// IsCompleted -> finished atau paid, layak menerima feedback
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusFinished || o.Status == OrderStatusPaid
}
