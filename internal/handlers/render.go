package handlers

import (
	"fmt"
	"strings"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
)

// handoffMessage is the fixed, calm reply for every escalated user.
// Technical detail never reaches the debtor.
const handoffMessage = "**Atendimento humano**\n\nEstamos transferindo sua conversa para um de nossos atendentes. Por favor, aguarde um momento."

// fallbackMessage is the last line of defense for unexpected failures.
const fallbackMessage = "**Atendimento humano**\n\nOcorreu um imprevisto e sua conversa foi encaminhada para um atendente."

func renderDividas(record *models.UserRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Olá%s.** Encontramos suas dívidas (informações de %s):\n\n",
		saudacao(record.Name), record.UpdatedAt.Format("02/01/2006 15:04"))

	for i, divida := range record.Dividas {
		fmt.Fprintf(&b, "### Dívida %d: Total R$ %.2f\n", i+1, divida.Valor)
		for _, contrato := range divida.Contratos {
			fmt.Fprintf(&b, "- Produto: %s (Doc: %s)\n", contrato.Produto, contrato.Numero)
		}
	}
	return b.String()
}

func renderOpcoes(simulacao *models.SimulacaoResponse) string {
	var b strings.Builder
	b.WriteString("**Opções de pagamento disponíveis:**\n\n")
	for i, opcao := range simulacao.OpcoesPagamento {
		fmt.Fprintf(&b, "**%d. %s**\n- Total: R$ %.2f\n\n", i+1, opcao.Texto, opcao.Total())
	}
	b.WriteString("Responda com o número da opção desejada para gerar o boleto.")
	return b.String()
}

func renderBoleto(boleto *models.Boleto) string {
	var b strings.Builder
	b.WriteString("**Boleto emitido com sucesso!**\n\n")
	fmt.Fprintf(&b, "- Valor: R$ %.2f\n", boleto.Valor)
	if boleto.QuantidadeParcela > 1 {
		fmt.Fprintf(&b, "- Parcelas: %d\n", boleto.QuantidadeParcela)
	}
	if boleto.DataVencimento != "" {
		fmt.Fprintf(&b, "- Vencimento: %s\n", boleto.DataVencimento)
	}
	fmt.Fprintf(&b, "\nLinha digitável:\n`%s`", boleto.LinhaDigitavel)
	return b.String()
}

func renderAcordo(record *models.UserRecord) string {
	acordo := record.Acordos[0]
	var b strings.Builder
	b.WriteString("**Você já possui um acordo ativo.**\n\n")
	fmt.Fprintf(&b, "- Acordo: %s\n- Valor: R$ %.2f\n", acordo.Numero, acordo.Valor)
	if acordo.DataVencimento != "" {
		fmt.Fprintf(&b, "- Vencimento: %s\n", acordo.DataVencimento)
	}
	b.WriteString("\nPosso emitir a segunda via do seu boleto. Deseja receber?")
	return b.String()
}

func saudacao(name string) string {
	if name == "" {
		return ""
	}
	first := strings.Fields(name)
	if len(first) == 0 {
		return ""
	}
	return ", " + first[0]
}
