package models

import "time"

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"type:varchar(100)" json:"name"`
	Surname        string     `gorm:"type:varchar(100)" json:"surname"`
	Email          string     `gorm:"type:varchar(255);unique;not null" json:"email"`
	Phone          string     `gorm:"type:varchar(50)" json:"phone"`
	PasswordHash   string     `gorm:"type:varchar(255);not null" json:"-"`
	Role           string     `gorm:"type:varchar(50);not null;default:'user'" json:"role"` // user | cleaner | admin
	City           string     `gorm:"type:varchar(120)" json:"city"`
	TotpSecret     *string    `gorm:"type:varchar(64)" json:"-"`
	IsTotpEnabled  bool       `gorm:"not null;default:false" json:"totp_enabled"`
	RewardPoints   int        `gorm:"not null;default:0" json:"reward_points"`
	ResetCode      *string    `gorm:"type:varchar(6)" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Addresses      []Address `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
	CleanerProfile *Cleaner  `gorm:"foreignKey:UserID" json:"cleaner_profile,omitempty"`
}

// TotpSetupPending -> secret sudah dibuat tapi belum dikonfirmasi di authenticator
func (u *User) TotpSetupPending() bool {
	return u.TotpSecret != nil && !u.IsTotpEnabled
}

// TotpActive -> 2FA aktif penuh (secret ada dan sudah dikonfirmasi)
func (u *User) TotpActive() bool {
	return u.TotpSecret != nil && u.IsTotpEnabled
}
