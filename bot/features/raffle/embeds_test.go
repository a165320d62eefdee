package raffle

import (
	"strings"
	"testing"
	"time"

	"rifa/bot/common"
	"rifa/domain/entities"
	"rifa/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func testEvent() *entities.RaffleEvent {
	return &entities.RaffleEvent{
		ID:         "evt-1",
		Title:      "Rifa da Escola",
		Location:   "Ginásio",
		DrawDate:   time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		Value:      decimal.NewFromInt(10),
		Prize:      "Bicicleta",
		InitialSeq: 1,
		FinalSeq:   60,
		CreatedAt:  time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateEventEmbed(t *testing.T) {
	embed := CreateEventEmbed(testEvent(), 25)

	assert.Equal(t, "Rifa da Escola", embed.Title)
	assert.Equal(t, "ID: evt-1", embed.Footer.Text)

	values := map[string]string{}
	for _, field := range embed.Fields {
		values[field.Name] = field.Value
	}
	assert.Equal(t, "Ginásio", values["Local"])
	assert.Equal(t, "15/03/2025", values["Data do sorteio"])
	assert.Equal(t, "R$ 10,00", values["Valor"])
	assert.Equal(t, "1 a 60 (60 números)", values["Cartelas"])
	assert.Equal(t, "3", values["Páginas"])
	assert.Equal(t, "<t:1735812000:R>", values["Criada"])
	assert.NotContains(t, values, "Vendas")
}

func TestCreateEventEmbed_SalesPeriod(t *testing.T) {
	event := testEvent()
	start := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	event.StartDate = &start

	embed := CreateEventEmbed(event, 25)

	last := embed.Fields[len(embed.Fields)-1]
	assert.Equal(t, "Vendas", last.Name)
	assert.Equal(t, "a partir de 01/02/2025", last.Value)
}

func TestCreateEventListEmbed(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		embed := CreateEventListEmbed("Rifas", nil)
		assert.Equal(t, "Nenhuma rifa cadastrada", embed.Description)
		assert.Nil(t, embed.Footer)
	})

	t.Run("long list is cut", func(t *testing.T) {
		list := make([]*entities.RaffleEvent, common.MaxEventsPerList+2)
		for i := range list {
			list[i] = testEvent()
		}

		embed := CreateEventListEmbed("Rifas", list)
		assert.Contains(t, embed.Description, "...e mais 2")
		assert.Equal(t, "TOTAL: 12", embed.Footer.Text)
	})
}

func TestCreateDrawEmbed(t *testing.T) {
	r := entities.Range{InitialSeq: 1, FinalSeq: 10}

	tests := []struct {
		name     string
		snap     services.DrawSnapshot
		contains []string
		color    int
	}{
		{
			name:     "idle shows the range",
			snap:     services.DrawSnapshot{Title: "Rifa", Range: r, Phase: entities.DrawPhaseIdle, AvailableCount: 10},
			contains: []string{"1 a 10", "10 números restantes no globo", "Nenhum número sorteado nesta sessão"},
			color:    common.ColorPrimary,
		},
		{
			name:     "spinning shows the rolling number",
			snap:     services.DrawSnapshot{Title: "Rifa", Range: r, Phase: entities.DrawPhaseSpinning, CurrentNumber: intPtr(4), AvailableCount: 10},
			contains: []string{"# 🎰 4", "GIRANDO..."},
			color:    common.ColorSpin,
		},
		{
			name:     "revealing",
			snap:     services.DrawSnapshot{Title: "Rifa", Range: r, Phase: entities.DrawPhaseRevealing, CurrentNumber: intPtr(9), AvailableCount: 10},
			contains: []string{"AGUARDE..."},
			color:    common.ColorSpin,
		},
		{
			name:     "resolved shows the winner",
			snap:     services.DrawSnapshot{Title: "Rifa", Range: r, Phase: entities.DrawPhaseResolved, Winner: intPtr(7), History: []int{7}, AvailableCount: 9},
			contains: []string{"# 🏆 7", "VENCEDOR: 7", "9 números restantes no globo", "**`7`**"},
			color:    common.ColorSuccess,
		},
		{
			name:     "sold out",
			snap:     services.DrawSnapshot{Title: "Rifa", Range: entities.Range{InitialSeq: 5, FinalSeq: 5}, Phase: entities.DrawPhaseResolved, Winner: intPtr(5), History: []int{5}, IsSoldOut: true},
			contains: []string{"ESGOTADO", "Todos os números já foram contemplados"},
			color:    common.ColorWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := CreateDrawEmbed(tt.snap)
			require.Len(t, embed.Fields, 1)

			text := embed.Description + "\n" + embed.Fields[0].Value
			for _, want := range tt.contains {
				assert.Contains(t, text, want)
			}
			assert.Equal(t, tt.color, embed.Color)
			assert.Equal(t, "RIFA", embed.Title)
		})
	}
}

func TestFormatHistory(t *testing.T) {
	history := make([]int, common.HistoryShownInDraw+5)
	for i := range history {
		history[i] = len(history) - i
	}

	out := formatHistory(history)

	assert.True(t, strings.HasPrefix(out, "**`65`**"))
	assert.True(t, strings.HasSuffix(out, "(+5)"))
	assert.LessOrEqual(t, len([]rune(out)), common.MaxEmbedFieldLength)
}

func TestCreateGridEmbed(t *testing.T) {
	event := testEvent()
	page, err := services.NewTicketGrid(25).Page(event, 3)
	require.NoError(t, err)

	embed := CreateGridEmbed(event, page, "RIFA-RIFA-DA-ESCOLA-03.png")

	assert.Equal(t, "Página 3 de 3 · números 51 a 60", embed.Description)
	assert.Equal(t, "attachment://RIFA-RIFA-DA-ESCOLA-03.png", embed.Image.URL)
	assert.Contains(t, embed.Footer.Text, "R$ 10,00")
}
