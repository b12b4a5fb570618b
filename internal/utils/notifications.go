package utils

import (
	"fmt"
	"log"

	"atelier_back_end/internal/models"
)

// SendOrderStatusEmail notifie le client d'un changement de statut.
func SendOrderStatusEmail(order models.Order, userEmail, newStatus string) error {
	subject := getStatusEmailSubject(newStatus)
	html := generateStatusEmailHTML(order, newStatus)

	if err := SendConfirmationEmail(userEmail, subject, html, nil); err != nil {
		log.Printf("❌ Erreur envoi email statut: %v", err)
		return err
	}

	log.Printf("📧 Email de statut envoyé: %s → %s", newStatus, userEmail)
	return nil
}

func getStatusEmailSubject(status string) string {
	switch status {
	case models.OrderStatusPaid:
		return "✅ Paiement confirmé - Atelier"
	case models.OrderStatusShipped:
		return "📦 Votre commande a été expédiée - Atelier"
	case models.OrderStatusDelivered:
		return "🎉 Votre commande a été livrée - Atelier"
	case models.OrderStatusCancelled:
		return "❌ Commande annulée - Atelier"
	default:
		return "📋 Mise à jour de votre commande - Atelier"
	}
}

func getStatusMessage(status string) string {
	switch status {
	case models.OrderStatusPaid:
		return "Nous avons bien reçu votre paiement. Votre commande est en cours de préparation."
	case models.OrderStatusShipped:
		return "Bonne nouvelle : votre commande est en route ! Vous la recevrez d'ici quelques jours."
	case models.OrderStatusDelivered:
		return "Votre commande a été livrée. Nous espérons qu'elle vous plaît !"
	case models.OrderStatusCancelled:
		return "Votre commande a été annulée. Si vous avez déjà payé, le remboursement sera effectué sous 5 jours ouvrés."
	default:
		return "Le statut de votre commande a été mis à jour."
	}
}

func getStatusIcon(status string) string {
	switch status {
	case models.OrderStatusPaid:
		return "✅"
	case models.OrderStatusShipped:
		return "📦"
	case models.OrderStatusDelivered:
		return "🎉"
	case models.OrderStatusCancelled:
		return "❌"
	default:
		return "📋"
	}
}

func getStatusColor(status string) string {
	switch status {
	case models.OrderStatusPaid:
		return "#10b981"
	case models.OrderStatusShipped:
		return "#3b82f6"
	case models.OrderStatusDelivered:
		return "#8b5cf6"
	case models.OrderStatusCancelled:
		return "#ef4444"
	default:
		return "#6b7280"
	}
}

func getStatusLabel(status string) string {
	switch status {
	case models.OrderStatusPending:
		return "En attente"
	case models.OrderStatusPaid:
		return "Payée"
	case models.OrderStatusShipped:
		return "Expédiée"
	case models.OrderStatusDelivered:
		return "Livrée"
	case models.OrderStatusCancelled:
		return "Annulée"
	default:
		return status
	}
}

func generateStatusEmailHTML(order models.Order, status string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Mise à jour de commande</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse; background-color: #f5f5f5;">
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; box-shadow: 0 4px 6px rgba(0,0,0,0.1);">
                    <tr>
                        <td style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 40px 30px; text-align: center; border-radius: 12px 12px 0 0;">
                            <h1 style="margin: 0; color: #ffffff; font-size: 28px; font-weight: 600;">
                                %s Atelier
                            </h1>
                            <p style="margin: 10px 0 0 0; color: #ffffff; font-size: 16px; opacity: 0.9;">
                                Mise à jour de votre commande
                            </p>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 30px 30px 0 30px; text-align: center;">
                            <div style="display: inline-block; padding: 12px 24px; background-color: %s; color: #ffffff; border-radius: 25px; font-weight: 600; font-size: 14px; text-transform: uppercase; letter-spacing: 0.5px;">
                                %s %s
                            </div>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 30px;">
                            <p style="margin: 0 0 20px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                %s
                            </p>
                            <table role="presentation" style="width: 100%%; border-collapse: collapse; background-color: #f8f9fa; border-radius: 8px; margin: 20px 0;">
                                <tr>
                                    <td style="padding: 20px;">
                                        <h3 style="margin: 0 0 15px 0; color: #333333; font-size: 18px; font-weight: 600;">
                                            📦 Détails de la commande
                                        </h3>
                                        <table role="presentation" style="width: 100%%; border-collapse: collapse;">
                                            <tr>
                                                <td style="padding: 8px 0; color: #666666; font-size: 14px;">
                                                    <strong style="color: #333333;">Numéro de commande:</strong>
                                                </td>
                                                <td style="padding: 8px 0; color: #333333; font-size: 14px; text-align: right;">
                                                    #%s
                                                </td>
                                            </tr>
                                            <tr>
                                                <td style="padding: 8px 0; color: #666666; font-size: 14px;">
                                                    <strong style="color: #333333;">Montant total:</strong>
                                                </td>
                                                <td style="padding: 8px 0; color: #333333; font-size: 14px; text-align: right; font-weight: 600;">
                                                    %.2f€
                                                </td>
                                            </tr>
                                            <tr>
                                                <td style="padding: 8px 0; color: #666666; font-size: 14px;">
                                                    <strong style="color: #333333;">Statut:</strong>
                                                </td>
                                                <td style="padding: 8px 0; color: %s; font-size: 14px; text-align: right; font-weight: 600;">
                                                    %s
                                                </td>
                                            </tr>
                                        </table>
                                    </td>
                                </tr>
                            </table>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 0 30px 40px 30px; text-align: center;">
                            <p style="margin: 0; color: #999999; font-size: 13px;">
                                Cordialement,<br><strong>L'équipe Atelier</strong>
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`,
		getStatusIcon(status), getStatusColor(status), getStatusIcon(status), getStatusLabel(status),
		getStatusMessage(status), order.ID.String(), order.Total, getStatusColor(status), getStatusLabel(status))
}
