package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tazabolsyn/cleaning-app/utils"
	gomail "gopkg.in/gomail.v2"
)

type smtpConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// getSMTPConfig membaca konfigurasi SMTP dari environment.
// Return nil jika SMTP belum dikonfigurasi lengkap.
func getSMTPConfig() *smtpConfig {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	if host == "" || portStr == "" || user == "" || password == "" || from == "" {
		return nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil
	}

	return &smtpConfig{Host: host, Port: port, User: user, Password: password, From: from}
}

// SendPasswordResetEmail mengirim kode reset ke email user.
// Fire-and-forget: kegagalan kirim hanya dicatat di log, tidak pernah
// menggagalkan request reset. Jika SMTP belum dikonfigurasi, kode dicatat
// di log server saja.
func SendPasswordResetEmail(email, resetCode string) bool {
	config := getSMTPConfig()
	if config == nil {
		utils.InfoLogger.Printf("[EMAIL] SMTP not configured, reset code for %s: %s", email, resetCode)
		return false
	}

	body := fmt.Sprintf(`Hello,

You requested a password reset for your TazaBolsyn account.

Your reset code is: %s

This code will expire in 15 minutes.

If you did not request this reset, please ignore this email.

Best regards,
TazaBolsyn Team`, resetCode)

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "TazaBolsyn - Password Reset Code")
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(config.Host, config.Port, config.User, config.Password)
	if err := d.DialAndSend(m); err != nil {
		utils.ErrorLogger.Printf("[EMAIL] Failed to send reset code to %s: %v", email, err)
		return false
	}

	utils.InfoLogger.Printf("[EMAIL] Password reset code sent to %s", email)
	return true
}
