package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"atelier_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendConfirmationEmail envoie un email HTML, avec une facture PDF en
// pièce jointe si fournie.
func SendConfirmationEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@atelier-boutique.fr"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture_atelier.pdf", bytes.NewReader(pdfAttachment))
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "ssl0.ovh.net"
	}

	client, err := mail.NewClient(host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande.
// Pour un paiement par virement, bankBlock contient les coordonnées et le
// QR SEPA déjà rendus (vide sinon).
func GenerateOrderConfirmationHTML(order models.Order, bankBlock string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	discountRow := ""
	if order.Discount > 0 {
		code := order.CouponCode
		if code == "" {
			code = "réduction"
		}
		discountRow = fmt.Sprintf(`
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Réduction (%s):</td>
					<td style="padding: 10px; color: #10b981;">-%.2f€</td>
				</tr>`, code, order.Discount)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre commande <strong>#%s</strong> a bien été enregistrée.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Sous-total:</td>
					<td style="padding: 10px;">%.2f€</td>
				</tr>%s
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Livraison:</td>
					<td style="padding: 10px;">%.2f€</td>
				</tr>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">%.2f€</td>
				</tr>
			</tfoot>
		</table>
		%s
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Atelier</strong>
		</p>
	</div>
</body>
</html>`, order.ID.String(), itemsHTML, order.Subtotal, discountRow, order.ShippingCost, order.Total, bankBlock)
}

// GenerateBankTransferBlock rend le bloc virement (coordonnées + QR SEPA)
// inséré dans l'email de confirmation des commandes payées par virement.
func GenerateBankTransferBlock(settings models.PaymentSettings, order models.Order) string {
	ref := fmt.Sprintf("FACT-%s", order.ID.String())

	qrHTML := ""
	if qr, err := GenerateSepaQR(settings.BankIBAN, settings.BankBIC, settings.BankBeneficiary, ref, order.Total); err == nil {
		qrHTML = fmt.Sprintf(`<p style="text-align: center;"><img src="%s" alt="QR SEPA" width="180" height="180"/></p>`, qr)
	}

	return fmt.Sprintf(`
		<div style="margin: 20px 0; padding: 20px; background-color: #f8f9fa; border-radius: 8px;">
			<h3 style="margin-top: 0;">💳 Paiement par virement</h3>
			<p>Merci d'effectuer le virement avec la communication <strong>%s</strong> :</p>
			<p>
				Bénéficiaire : <strong>%s</strong><br>
				IBAN : <strong>%s</strong><br>
				BIC : <strong>%s</strong><br>
				Montant : <strong>%.2f€</strong>
			</p>
			%s
		</div>`, ref, settings.BankBeneficiary, settings.BankIBAN, settings.BankBIC, order.Total, qrHTML)
}

// GenerateInvoicePDF rend la facture d'une commande en PDF via la page
// facture du front.
func GenerateInvoicePDF(order models.Order, settings models.PaymentSettings) ([]byte, error) {
	ref := fmt.Sprintf("FACT-%s", order.ID.String())

	qrBase64, err := GenerateSepaQR(settings.BankIBAN, settings.BankBIC, settings.BankBeneficiary, ref, order.Total)
	if err != nil {
		return nil, fmt.Errorf("erreur génération QR: %v", err)
	}

	return RenderInvoicePDF(GetFrontendInvoiceBaseURL(), order.ID.String(), qrBase64)
}
