package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("motdepasse123")
	if err != nil {
		t.Fatalf("erreur hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("format inattendu: %s", hash)
	}

	ok, err := VerifyPassword("motdepasse123", hash)
	if err != nil {
		t.Fatalf("erreur vérification: %v", err)
	}
	if !ok {
		t.Error("le bon mot de passe doit être accepté")
	}

	ok, err = VerifyPassword("mauvais", hash)
	if err != nil {
		t.Fatalf("erreur vérification: %v", err)
	}
	if ok {
		t.Error("un mauvais mot de passe ne doit pas être accepté")
	}
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	h1, _ := HashPassword("motdepasse123")
	h2, _ := HashPassword("motdepasse123")
	if h1 == h2 {
		t.Error("deux hashs du même mot de passe doivent différer (sel aléatoire)")
	}
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	if _, err := VerifyPassword("x", "pas-un-hash"); err == nil {
		t.Error("un hash malformé doit renvoyer une erreur")
	}
	if _, err := VerifyPassword("x", "$bcrypt$foo$bar"); err == nil {
		t.Error("un autre algorithme doit être rejeté")
	}
}

func TestIsArgon2Hash(t *testing.T) {
	if !IsArgon2Hash("$argon2id$v=19$m=32768,t=1,p=4$abc$def") {
		t.Error("hash argon2id non reconnu")
	}
	if IsArgon2Hash("$2a$10$abcdef") {
		t.Error("un hash bcrypt ne doit pas être reconnu comme argon2")
	}
}
