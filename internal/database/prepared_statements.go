package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

// Requêtes chaudes du keyspace users (login, register, réplique panier).
// gocql maintient un cache de prepared statements par texte de requête :
// chaque accesseur rend une query fraîche — liable sans course entre
// requêtes HTTP — qui réutilise la préparation serveur.
const (
	stmtGetUserByEmail = "SELECT user_id FROM users_by_email WHERE email = ?"

	stmtGetUserByID = `SELECT email, password, name, phone, role, provider
		FROM users WHERE user_id = ?`

	stmtInsertUser = `INSERT INTO users (user_id, email, password, name, phone, role, provider, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmtInsertUserByEmail = "INSERT INTO users_by_email (email, user_id) VALUES (?, ?)"

	stmtGetProfileCart = "SELECT cart FROM profiles WHERE user_id = ?"

	stmtSaveProfileCart = "UPDATE profiles SET cart = ?, updated_at = ? WHERE user_id = ?"
)

var preparedOnce sync.Once

// InitPreparedStatements amorce la préparation des requêtes chaudes.
// Appelé une fois au démarrage, après ConnectDatabases : la première
// exécution de chaque lecture déclenche la préparation côté serveur, les
// appels suivants partent déjà préparés.
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		// Seules les lectures sont amorçables sans effet de bord.
		for _, stmt := range []string{stmtGetUserByEmail, stmtGetProfileCart} {
			iter := session.Query(stmt, "warmup").Iter()
			_ = iter.Close()
		}

		log.Println("✅ Prepared statements initialisés")
	})
}

func usersQuery(stmt string) (*gocql.Query, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, err
	}
	return session.Query(stmt), nil
}

func GetPreparedGetUserByEmail() (*gocql.Query, error) {
	return usersQuery(stmtGetUserByEmail)
}

func GetPreparedGetUserByID() (*gocql.Query, error) {
	return usersQuery(stmtGetUserByID)
}

func GetPreparedInsertUser() (*gocql.Query, error) {
	return usersQuery(stmtInsertUser)
}

func GetPreparedInsertUserByEmail() (*gocql.Query, error) {
	return usersQuery(stmtInsertUserByEmail)
}

func GetPreparedGetProfileCart() (*gocql.Query, error) {
	return usersQuery(stmtGetProfileCart)
}

func GetPreparedSaveProfileCart() (*gocql.Query, error) {
	return usersQuery(stmtSaveProfileCart)
}
