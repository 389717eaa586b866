package notifier

import "fmt"

const appName = "Sampark"

// OTPEmail renders the verification mail sent at signup. Plain text only.
func OTPEmail(userName, otp string) (subject, body string) {
	subject = fmt.Sprintf("Your %s Verification Code: %s", appName, otp)

	body = fmt.Sprintf(`Hi %s,

Thank you for signing up with %s!

Your verification code is: %s

This code will expire in 10 minutes.

Please enter this code on the verification page to complete your registration.

If you didn't request this code, please ignore this email.

Security Tips:
- Never share your verification code with anyone
- %s will never ask for your code via phone or email

Best regards,
The %s Team

---
This is an automated email. Please do not reply to this message.
`, userName, appName, otp, appName, appName)

	return subject, body
}

// WelcomeEmail renders the mail sent once an account has been created.
func WelcomeEmail(userName string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to %s!", appName)

	body = fmt.Sprintf(`Hi %s,

Welcome to %s - Your Voice Matters!

Thank you for joining our community grievance platform.

With %s, you can:
- Submit and track grievances in your community
- Get real-time updates on your complaint status
- Track your grievances with unique tracking IDs

Best regards,
The %s Team
`, userName, appName, appName, appName)

	return subject, body
}
