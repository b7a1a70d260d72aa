package bot

import (
	"strconv"

	"purchase-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// menuColumns is the fixed column width of the help-menu grid.
const menuColumns = 3

// menuKeyboard lays the role-filtered article set out as a grid of sequence
// number buttons, menuColumns per row, plus a final row with a single back
// button. Each item button carries the full navigation state {id, seq, role}.
func menuKeyboard(articles []storage.Article, role storage.Role) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i := 0; i < len(articles); i += menuColumns {
		end := i + menuColumns
		if end > len(articles) {
			end = len(articles)
		}

		row := make([]tgbotapi.InlineKeyboardButton, 0, end-i)
		for j := i; j < end; j++ {
			ref := articleRef{ID: articles[j].ID, Seq: j + 1, Role: role}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(j+1), ref.payload()))
		}
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(labelBack, cmdToHelp),
	})

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// articleNavKeyboard derives the navigation row of the article detail view.
// count is the size of the role-filtered set; prevID and nextID come from the
// store and equal ref.ID on the matching boundary (the no-neighbour sentinel).
//
//	single article:  [back]
//	first of many:   [back] [next]
//	last of many:    [prev] [back]
//	interior:        [prev] [back] [next]
func articleNavKeyboard(ref articleRef, count int, prevID, nextID int64) tgbotapi.InlineKeyboardMarkup {
	back := tgbotapi.NewInlineKeyboardButtonData(labelBack, cmdToHelp)

	prev := func() tgbotapi.InlineKeyboardButton {
		r := articleRef{ID: prevID, Seq: ref.Seq - 1, Role: ref.Role}
		return tgbotapi.NewInlineKeyboardButtonData(labelPrev, r.payload())
	}
	next := func() tgbotapi.InlineKeyboardButton {
		r := articleRef{ID: nextID, Seq: ref.Seq + 1, Role: ref.Role}
		return tgbotapi.NewInlineKeyboardButtonData(labelNext, r.payload())
	}

	var row []tgbotapi.InlineKeyboardButton
	switch {
	case count <= 1:
		row = []tgbotapi.InlineKeyboardButton{back}
	case ref.Seq == 1:
		row = []tgbotapi.InlineKeyboardButton{back, next()}
	case ref.Seq >= count:
		row = []tgbotapi.InlineKeyboardButton{prev(), back}
	default:
		row = []tgbotapi.InlineKeyboardButton{prev(), back, next()}
	}

	return tgbotapi.NewInlineKeyboardMarkup(row)
}
