package database

import (
	"strings"
	"testing"
)

// Les colonnes de stmtGetUserByID doivent rester dans l'ordre attendu par
// les Scan des handlers auth et oauth.
func TestGetUserByIDColumnOrder(t *testing.T) {
	want := []string{"email", "password", "name", "phone", "role", "provider"}

	selectPart := stmtGetUserByID[:strings.Index(stmtGetUserByID, "FROM")]
	cols := strings.Split(strings.TrimPrefix(strings.TrimSpace(selectPart), "SELECT"), ",")
	if len(cols) != len(want) {
		t.Fatalf("stmtGetUserByID: %d colonnes, attendu %d", len(cols), len(want))
	}
	for i, c := range cols {
		if strings.TrimSpace(c) != want[i] {
			t.Errorf("colonne %d = %q, attendu %q", i, strings.TrimSpace(c), want[i])
		}
	}
}

func TestInsertStatementsPlaceholdersMatchColumns(t *testing.T) {
	cases := []struct {
		name string
		stmt string
	}{
		{"users", stmtInsertUser},
		{"users_by_email", stmtInsertUserByEmail},
	}
	for _, tc := range cases {
		open := strings.Index(tc.stmt, "(")
		closing := strings.Index(tc.stmt, ")")
		cols := len(strings.Split(tc.stmt[open+1:closing], ","))
		placeholders := strings.Count(tc.stmt, "?")
		if cols != placeholders {
			t.Errorf("%s: %d colonnes pour %d placeholders", tc.name, cols, placeholders)
		}
	}
}

// La réplique profils lit et écrit la même colonne cart de la même table.
func TestProfileCartStatementsTargetSameColumn(t *testing.T) {
	for _, stmt := range []string{stmtGetProfileCart, stmtSaveProfileCart} {
		if !strings.Contains(stmt, "profiles") {
			t.Errorf("statement ne vise pas la table profiles: %q", stmt)
		}
		if !strings.Contains(stmt, "cart") {
			t.Errorf("statement ne touche pas la colonne cart: %q", stmt)
		}
		if !strings.Contains(stmt, "WHERE user_id = ?") {
			t.Errorf("statement sans clause user_id: %q", stmt)
		}
	}
	if !strings.Contains(stmtSaveProfileCart, "updated_at = ?") {
		t.Errorf("l'écriture doit horodater updated_at: %q", stmtSaveProfileCart)
	}
}
