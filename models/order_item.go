package models

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"not null;index" json:"order_id"`
	Order       Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ServiceName string  `gorm:"type:varchar(255);not null" json:"service_name"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"` // harga per unit
}
