package auth

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendPasswordSetupEmail sends the freshly provisioned user the link to set
// their first password.
func SendPasswordSetupEmail(to string, token string) error {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:5173"
	}
	link := fmt.Sprintf("%s/definir-senha?token=%s", appURL, token)
	subject := "Bem-vindo ao JurisZap — defina sua senha"
	body := fmt.Sprintf("Seu pagamento foi confirmado e sua conta está pronta.\n\nDefina sua senha de acesso pelo link abaixo:\n\n%s", link)
	return sendMail(to, subject, body)
}

func SendPasswordResetEmail(to string, token string) error {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:5173"
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", appURL, token)
	subject := "JurisZap — redefinição de senha"
	body := fmt.Sprintf("Para redefinir sua senha, acesse o link abaixo:\n\n%s", link)
	return sendMail(to, subject, body)
}

func sendMail(to string, subject string, body string) error {
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")

	auth := smtp.PlainAuth("", from, password, host)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(host+":"+port, auth, from, []string{to}, message)
	if err != nil {
		fmt.Println("❌ SMTP error:", err)
	}
	return err
}
