package mailer

import "fmt"

// CredentialDeliverySubject is the subject line for delivered credentials.
const CredentialDeliverySubject = "Your enterprise email access is ready"

// OrderConfirmationSubject is the subject line for new order confirmations.
const OrderConfirmationSubject = "We received your order"

// CredentialDeliveryHTML renders the body carrying the usable credentials.
// The delivery contract requires the plaintext password to reach the user.
func CredentialDeliveryHTML(name, enterpriseEmail, enterprisePassword string) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Your enterprise email account is ready to use:</p>
<ul>
  <li>Email: <strong>%s</strong></li>
  <li>Password: <strong>%s</strong></li>
</ul>
<p>Sign in and change the password on first use.</p>`, name, enterpriseEmail, enterprisePassword)
}

// OrderConfirmationHTML renders the post-payment confirmation body.
func OrderConfirmationHTML(name string) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Thanks for your purchase. Our team is preparing your enterprise email
credentials and will email them to you shortly.</p>`, name)
}
