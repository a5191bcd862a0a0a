// Package mail holds the outbound email collaborator. Delivery is an
// interface; the default implementation only logs, which keeps email
// failures out of the request path entirely.
package mail

import (
	"fmt"
	"log"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"
)

// Sender delivers a single transactional email.
type Sender interface {
	Send(to, subject, html string) error
}

// LogSender is the development sender: it logs the email instead of
// delivering it.
type LogSender struct{}

func (LogSender) Send(to, subject, html string) error {
	log.Printf("mail to=%s subject=%q (%d bytes)", to, subject, len(html))
	return nil
}

// SendWelcome mails the post-registration greeting.
func SendWelcome(s Sender, u dom.User, frontendURL string) error {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account has been created successfully. "+
			"You can start organising your tasks right away.</p>"+
			"<p><a href=%q>Go to Dashboard</a></p>",
		u.DisplayName(), frontendURL+"/login")
	return s.Send(u.Email, "Welcome to ESE Task Manager", html)
}

// SendPasswordReset mails the one-time reset link.
func SendPasswordReset(s Sender, u dom.User, resetURL string) error {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>You requested a password reset. "+
			"Click the link below to set a new password:</p>"+
			"<p><a href=%q>Reset Password</a></p>"+
			"<p>This link expires in 1 hour. If you did not request this, "+
			"you can safely ignore this email.</p>",
		u.DisplayName(), resetURL)
	return s.Send(u.Email, "Password Reset - ESE Task Manager", html)
}
