package payment

import "testing"

func TestAmountInCents(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{19.99, 1999},
		{0.29, 29},
		{10, 1000},
		{0, 0},
		{149.95, 14995},
	}
	for _, tc := range cases {
		if got := amountInCents(tc.amount); got != tc.want {
			t.Errorf("amountInCents(%v) = %d, attendu %d", tc.amount, got, tc.want)
		}
	}
}
