package utils

import (
	"fmt"
	"os"
)

// SendWelcomeEmail envoie l'email de bienvenue après inscription.
func SendWelcomeEmail(userEmail, userName string) error {
	subject := "🎉 Bienvenue sur Atelier !"

	storeURL := os.Getenv("STORE_BASE_URL")
	if storeURL == "" {
		storeURL = "http://localhost:3000"
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Bienvenue sur Atelier</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse; background-color: #f5f5f5;">
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; box-shadow: 0 4px 6px rgba(0,0,0,0.1);">
                    <tr>
                        <td style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 50px 30px; text-align: center; border-radius: 12px 12px 0 0;">
                            <h1 style="margin: 0; color: #ffffff; font-size: 32px; font-weight: 700;">
                                🎉 Bienvenue sur Atelier !
                            </h1>
                            <p style="margin: 15px 0 0 0; color: #ffffff; font-size: 18px; opacity: 0.95;">
                                Bonjour %s
                            </p>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 25px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Merci de vous être inscrit sur <strong>Atelier</strong>, votre nouvelle boutique en ligne ! 🛍️
                            </p>
                            <p style="margin: 0 0 30px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Découvrez dès maintenant notre sélection de produits et profitez de nos offres exclusives.
                            </p>
                            <table role="presentation" style="width: 100%%; margin: 30px 0;">
                                <tr>
                                    <td style="text-align: center;">
                                        <a href="%s/products" style="display: inline-block; padding: 16px 40px; background-color: #667eea; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600; font-size: 16px;">
                                            🛍️ Commencer mes achats
                                        </a>
                                    </td>
                                </tr>
                            </table>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 0 30px 40px 30px; text-align: center;">
                            <p style="margin: 0; color: #999999; font-size: 13px;">
                                À très bientôt,<br><strong>L'équipe Atelier</strong>
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`, userName, storeURL)

	return SendConfirmationEmail(userEmail, subject, html, nil)
}
