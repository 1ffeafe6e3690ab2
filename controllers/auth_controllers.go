package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tazabolsyn/cleaning-app/models"
	"github.com/tazabolsyn/cleaning-app/services"
	"github.com/tazabolsyn/cleaning-app/utils"
	"gorm.io/gorm"
)

const resetCodeTTL = 15 * time.Minute

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Signup mendaftarkan user baru dengan role "user" dan langsung login.
func (ac *AuthController) Signup(c *gin.Context) {
	type request struct {
		Name            string `json:"name"`
		Surname         string `json:"surname"`
		Email           string `json:"email" binding:"required,email"`
		City            string `json:"city"`
		Password        string `json:"password" binding:"required,min=8"`
		PasswordConfirm string `json:"password_confirm" binding:"required,min=8"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Password != req.PasswordConfirm {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Passwords do not match"))
		return
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Email is already registered"))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		City:         req.City,
		PasswordHash: hashed,
		Role:         "user",
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s", user.Email)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userPayload(&user),
	})
}

// Login dengan email, password, dan kode TOTP opsional.
// Jika 2FA sudah dikonfirmasi, kode TOTP yang valid wajib ada.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		TotpCode string `json:"totp_code"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ac.DB.Preload("Addresses").Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid email or password"))
		return
	}

	if !utils.CheckPassword(input.Password, user.PasswordHash) {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid email or password"))
		return
	}

	// Hanya secret yang sudah dikonfirmasi yang menggate login
	if user.TotpActive() {
		if input.TotpCode == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("TOTP_REQUIRED"))
			return
		}
		if !utils.VerifyTotpCode(*user.TotpSecret, input.TotpCode) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("INVALID_TOTP"))
			return
		}
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for %s (role=%s)", user.Email, user.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userPayload(&user),
	})
}

// SetupTotp membuat secret TOTP baru untuk user.
// Secret dikeluarkan tepat satu kali per attempt setup: kalau sudah ada
// secret yang belum dikonfirmasi, setup ulang ditolak supaya QR payload
// tidak bisa diambil berulang kali.
func (ac *AuthController) SetupTotp(c *gin.Context) {
	user, err := currentUser(c, ac.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	if user.TotpActive() {
		utils.RespondError(c, http.StatusConflict, errors.New("TOTP is already enabled"))
		return
	}

	if user.TotpSetupPending() {
		utils.RespondError(c, http.StatusConflict, errors.New("TOTP setup already pending, confirm with a code first"))
		return
	}

	secret, otpauthURL, err := utils.NewTotpSecret(user.Email)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := ac.DB.Model(user).Updates(map[string]interface{}{
		"totp_secret":     secret,
		"is_totp_enabled": false,
	}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	qrBase64, err := utils.QRPNGBase64(otpauthURL)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Scan the QR code in your authenticator app, then confirm with a code", gin.H{
		"secret":         secret,
		"otpauth_url":    otpauthURL,
		"qr_code_base64": qrBase64,
	})
}

// ConfirmTotp memverifikasi kode pertama dari authenticator dan
// mengaktifkan 2FA. Idempotent kalau sudah aktif.
func (ac *AuthController) ConfirmTotp(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := currentUser(c, ac.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	if user.TotpActive() {
		utils.RespondJSON(c, http.StatusOK, "TOTP already enabled", gin.H{"totp_enabled": true})
		return
	}

	if user.TotpSecret == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("TOTP is not set up"))
		return
	}

	if !utils.VerifyTotpCode(*user.TotpSecret, req.Code) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid TOTP code"))
		return
	}

	if err := ac.DB.Model(user).Update("is_totp_enabled", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("TOTP enabled for %s", user.Email)
	utils.RespondJSON(c, http.StatusOK, "TOTP enabled", gin.H{"totp_enabled": true})
}

// RequestReset mengirim kode reset 6 digit ke email user.
// Response selalu generik supaya tidak membocorkan apakah email terdaftar.
func (ac *AuthController) RequestReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		code, err := utils.NewResetCode()
		if err == nil {
			expires := time.Now().UTC().Add(resetCodeTTL)
			if err := ac.DB.Model(&user).Updates(map[string]interface{}{
				"reset_code":       code,
				"reset_expires_at": expires,
			}).Error; err == nil {
				// Kegagalan kirim email tidak menggagalkan request
				services.SendPasswordResetEmail(user.Email, code)
			} else {
				utils.ErrorLogger.Printf("Failed to store reset code for %s: %v", user.Email, err)
			}
		}
	}

	utils.RespondJSON(c, http.StatusOK, "If an account with that email exists, a reset code has been sent.", nil)
}

// ConfirmReset memverifikasi kode reset dan mengganti password.
// Kode dan expiry dibersihkan atomik bersama penggantian hash.
func (ac *AuthController) ConfirmReset(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Code        string `json:"code" binding:"required,len=6"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	err := ac.DB.Where("email = ?", req.Email).First(&user).Error
	if err != nil || user.ResetCode == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid reset request"))
		return
	}

	if *user.ResetCode != req.Code {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid reset code"))
		return
	}

	// Bandingkan dalam UTC supaya timestamp naive/aware tidak tercampur
	if user.ResetExpiresAt == nil || time.Now().UTC().After(user.ResetExpiresAt.UTC()) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Reset code has expired"))
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := ac.DB.Model(&user).Updates(map[string]interface{}{
		"password_hash":    hashed,
		"reset_code":       nil,
		"reset_expires_at": nil,
	}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Password reset completed for %s", user.Email)
	utils.RespondJSON(c, http.StatusOK, "Password updated successfully.", nil)
}
