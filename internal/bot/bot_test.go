package bot

import "testing"

func TestResolveMessageKey(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/start", "/start"},
		{"/start@purchase_bot", "/start"},
		{"/start now", "/start"},
		{"Помощь", "помощь"},
		{"ПОМОЩЬ", "помощь"},
		{"  Изменить роль  ", "изменить роль"},
		{"Частное Лицо", "частное лицо"},
		{"предприниматель", "предприниматель"},
		{"что-то другое", "что-то другое"},
	}

	for _, c := range cases {
		if got := resolveMessageKey(c.text); got != c.want {
			t.Errorf("resolveMessageKey(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
