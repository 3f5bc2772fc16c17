package enums

// EmailType labels each outbound email attempt in the email log.
type EmailType string

const (
	EmailTypeVerification       EmailType = "verification"
	EmailTypeWelcome            EmailType = "welcome"
	EmailTypeOrderConfirmation  EmailType = "order_confirmation"
	EmailTypeCredentialDelivery EmailType = "credential_delivery"
	EmailTypePasswordReset      EmailType = "password_reset"
	EmailTypePaymentFailed      EmailType = "payment_failed"
)
