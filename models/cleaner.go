package models

// Cleaner adalah profil 1:1 untuk User dengan role cleaner.
// Availability diturunkan dari jumlah order aktif oleh order service,
// bukan di-set langsung oleh cleaner.
type Cleaner struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	UserID       uint `gorm:"unique;not null" json:"user_id"`
	User         User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Availability bool `gorm:"not null;default:true" json:"availability"`
}
