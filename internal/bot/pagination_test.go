package bot

import (
	"fmt"
	"testing"

	"purchase-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sequence numbers are computed at render time from the id-ordered set. If
// the set changes between the menu render and a button press, the payload can
// carry a stale seq or id; that staleness is tolerated by design and is not
// covered here.

func makeArticles(ids ...int64) []storage.Article {
	articles := make([]storage.Article, 0, len(ids))
	for _, id := range ids {
		articles = append(articles, storage.Article{
			ID:    id,
			Title: fmt.Sprintf("Article %d", id),
			Role:  storage.RoleRegular,
		})
	}
	return articles
}

func rowLabels(row []tgbotapi.InlineKeyboardButton) []string {
	labels := make([]string, 0, len(row))
	for _, btn := range row {
		labels = append(labels, btn.Text)
	}
	return labels
}

func buttonData(btn tgbotapi.InlineKeyboardButton) string {
	if btn.CallbackData == nil {
		return ""
	}
	return *btn.CallbackData
}

func TestMenuKeyboard_Empty(t *testing.T) {
	markup := menuKeyboard(nil, storage.RoleRegular)

	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("Expected only the back row, got %d rows", len(markup.InlineKeyboard))
	}

	backRow := markup.InlineKeyboard[0]
	if len(backRow) != 1 || backRow[0].Text != labelBack {
		t.Errorf("Incorrect back row: %v", rowLabels(backRow))
	}
	if buttonData(backRow[0]) != cmdToHelp {
		t.Errorf("Incorrect back payload, got %q, want %q", buttonData(backRow[0]), cmdToHelp)
	}
}

func TestMenuKeyboard_SingleRow(t *testing.T) {
	// Three articles fit one row of width 3, plus the back row.
	markup := menuKeyboard(makeArticles(5, 9, 12), storage.RoleRegular)

	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(markup.InlineKeyboard))
	}

	itemRow := markup.InlineKeyboard[0]
	if len(itemRow) != 3 {
		t.Fatalf("Expected 3 item buttons, got %d", len(itemRow))
	}

	wantData := []string{
		"/to_article 5 1 regular",
		"/to_article 9 2 regular",
		"/to_article 12 3 regular",
	}
	for i, btn := range itemRow {
		if btn.Text != fmt.Sprintf("%d", i+1) {
			t.Errorf("Button %d has label %q", i, btn.Text)
		}
		if buttonData(btn) != wantData[i] {
			t.Errorf("Button %d payload, got %q, want %q", i, buttonData(btn), wantData[i])
		}
	}

	backRow := markup.InlineKeyboard[1]
	if len(backRow) != 1 || buttonData(backRow[0]) != cmdToHelp {
		t.Errorf("Incorrect back row: %v", rowLabels(backRow))
	}
}

func TestMenuKeyboard_PartialLastRow(t *testing.T) {
	markup := menuKeyboard(makeArticles(1, 2, 3, 4), storage.RoleRegular)

	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 3 {
		t.Errorf("First row has %d buttons, want 3", len(markup.InlineKeyboard[0]))
	}
	if len(markup.InlineKeyboard[1]) != 1 {
		t.Errorf("Second row has %d buttons, want 1", len(markup.InlineKeyboard[1]))
	}
	if buttonData(markup.InlineKeyboard[1][0]) != "/to_article 4 4 regular" {
		t.Errorf("Fourth item payload, got %q", buttonData(markup.InlineKeyboard[1][0]))
	}
}

func TestMenuKeyboard_FullGrid(t *testing.T) {
	markup := menuKeyboard(makeArticles(1, 2, 3, 4, 5, 6, 7), storage.RoleRegular)

	wantRowLens := []int{3, 3, 1, 1} // two full rows, one partial, back row
	if len(markup.InlineKeyboard) != len(wantRowLens) {
		t.Fatalf("Expected %d rows, got %d", len(wantRowLens), len(markup.InlineKeyboard))
	}
	for i, want := range wantRowLens {
		if len(markup.InlineKeyboard[i]) != want {
			t.Errorf("Row %d has %d buttons, want %d", i, len(markup.InlineKeyboard[i]), want)
		}
	}
}

func TestArticleNavKeyboard_Interior(t *testing.T) {
	// Set [5, 9, 12]: the middle article gets prev, back and next.
	ref := articleRef{ID: 9, Seq: 2, Role: storage.RoleRegular}
	markup := articleNavKeyboard(ref, 3, 5, 12)

	row := markup.InlineKeyboard[0]
	got := rowLabels(row)
	want := []string{labelPrev, labelBack, labelNext}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("Incorrect buttons, got %v, want %v", got, want)
	}

	if buttonData(row[0]) != "/to_article 5 1 regular" {
		t.Errorf("Prev payload, got %q", buttonData(row[0]))
	}
	if buttonData(row[1]) != cmdToHelp {
		t.Errorf("Back payload, got %q", buttonData(row[1]))
	}
	if buttonData(row[2]) != "/to_article 12 3 regular" {
		t.Errorf("Next payload, got %q", buttonData(row[2]))
	}
}

func TestArticleNavKeyboard_SingleArticle(t *testing.T) {
	// A one-article set has neither neighbour; the store reports the
	// sentinel (the input id) on both sides.
	ref := articleRef{ID: 7, Seq: 1, Role: storage.RoleRegular}
	markup := articleNavKeyboard(ref, 1, 7, 7)

	row := markup.InlineKeyboard[0]
	if len(row) != 1 || row[0].Text != labelBack {
		t.Fatalf("Expected only a back button, got %v", rowLabels(row))
	}
}

func TestArticleNavKeyboard_First(t *testing.T) {
	ref := articleRef{ID: 5, Seq: 1, Role: storage.RoleRegular}
	markup := articleNavKeyboard(ref, 3, 5, 9)

	row := markup.InlineKeyboard[0]
	got := rowLabels(row)
	if len(got) != 2 || got[0] != labelBack || got[1] != labelNext {
		t.Fatalf("Incorrect buttons, got %v", got)
	}
	if buttonData(row[1]) != "/to_article 9 2 regular" {
		t.Errorf("Next payload, got %q", buttonData(row[1]))
	}
}

func TestArticleNavKeyboard_Last(t *testing.T) {
	ref := articleRef{ID: 12, Seq: 3, Role: storage.RoleRegular}
	markup := articleNavKeyboard(ref, 3, 9, 12)

	row := markup.InlineKeyboard[0]
	got := rowLabels(row)
	if len(got) != 2 || got[0] != labelPrev || got[1] != labelBack {
		t.Fatalf("Incorrect buttons, got %v", got)
	}
	if buttonData(row[0]) != "/to_article 9 2 regular" {
		t.Errorf("Prev payload, got %q", buttonData(row[0]))
	}
}
