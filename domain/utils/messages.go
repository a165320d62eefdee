package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys for the draw screen
const (
	MsgSpinning       = "draw.spinning"
	MsgRevealing      = "draw.revealing"
	MsgSoldOut        = "draw.sold_out"
	MsgStartDraw      = "draw.start"
	MsgNextDraw       = "draw.next"
	MsgFinish         = "draw.finish"
	MsgWinner         = "draw.winner"
	MsgRemaining      = "draw.remaining"
	MsgAllDrawn       = "draw.all_drawn"
	MsgNoRepeat       = "draw.no_repeat"
	MsgNoDrawsYet     = "draw.no_draws_yet"
	MsgDrawnNumbers   = "draw.drawn_numbers"
	MsgTotal          = "draw.total"
	MsgPage           = "grid.page"
	MsgSheetFooter    = "sheet.footer"
	MsgEventSaved     = "event.saved"
	MsgEventDeleted   = "event.deleted"
	MsgEventNotFound  = "event.not_found"
	MsgNoEvents       = "event.none"
	MsgExportFinished = "export.finished"
)

func init() {
	lang := language.BrazilianPortuguese

	message.SetString(lang, MsgSpinning, "GIRANDO...")
	message.SetString(lang, MsgRevealing, "AGUARDE...")
	message.SetString(lang, MsgSoldOut, "ESGOTADO")
	message.SetString(lang, MsgStartDraw, "INICIAR SORTEIO")
	message.SetString(lang, MsgNextDraw, "PRÓXIMO SORTEIO")
	message.SetString(lang, MsgFinish, "CONCLUIR")
	message.SetString(lang, MsgWinner, "VENCEDOR: %s")
	message.SetString(lang, MsgRemaining, "%d números restantes no globo")
	message.SetString(lang, MsgAllDrawn, "Todos os números já foram contemplados")
	message.SetString(lang, MsgNoRepeat, "Sorteio aleatório sem repetições")
	message.SetString(lang, MsgNoDrawsYet, "Nenhum número sorteado nesta sessão")
	message.SetString(lang, MsgDrawnNumbers, "Números Sorteados")
	message.SetString(lang, MsgTotal, "TOTAL: %d")
	message.SetString(lang, MsgPage, "Página %d de %d")
	message.SetString(lang, MsgSheetFooter, "Pagina %d de %d | Raffle Master")
	message.SetString(lang, MsgEventSaved, "Rifa \"%s\" salva com sucesso")
	message.SetString(lang, MsgEventDeleted, "Rifa excluída")
	message.SetString(lang, MsgEventNotFound, "Rifa não encontrada")
	message.SetString(lang, MsgNoEvents, "Nenhuma rifa cadastrada")
	message.SetString(lang, MsgExportFinished, "Exportação concluída")
}

// T renders a message key in pt-BR
func T(key message.Reference, args ...interface{}) string {
	return message.NewPrinter(language.BrazilianPortuguese).Sprintf(key, args...)
}
