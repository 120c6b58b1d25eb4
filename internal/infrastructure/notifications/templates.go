package notifications

import "fmt"

func otpEmailHTML(code string, expiryMinutes int) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Use the code below to verify your email address:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">%s</p>
  <p>This code will expire in %d minutes.</p>
  <p>If you did not create an account, you can safely ignore this email.</p>
</body>
</html>`, code, expiryMinutes)
}

func passwordResetEmailHTML(code string, expiryMinutes int) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset your password</h2>
  <p>Use the code below to reset your password:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">%s</p>
  <p>This code will expire in %d minutes.</p>
  <p>If you did not request a password reset, you can safely ignore this email.</p>
</body>
</html>`, code, expiryMinutes)
}
