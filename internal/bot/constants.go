package bot

// COMMAND AND PHRASE KEYS

// Slash commands and callback command keys.
const (
	cmdStart  = "/start"
	cmdHelp   = "/help"
	cmdStats  = "/stats"
	cmdExport = "/export"

	cmdToArticle = "/to_article"
	cmdToHelp    = "/to_help"
)

// Reply-keyboard phrases, stored lower-cased; incoming text is normalized
// before lookup so matching is not case-sensitive.
const (
	phraseHelp             = "помощь"
	phraseChangeRole       = "изменить роль"
	phraseSite             = "перейти к сайту"
	phraseRoleRegular      = "частное лицо"
	phraseRoleEntrepreneur = "предприниматель"
)

// Inline navigation button labels.
const (
	labelBack = "Назад"
	labelPrev = "<<"
	labelNext = ">>"
)
