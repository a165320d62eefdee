package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func eventIDOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "id",
		Description: description,
		Required:    true,
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	minSeq := float64(0)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "rifa",
			Description: "Gerenciar rifas e realizar sorteios",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "criar",
					Description: "Cadastrar uma nova rifa",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "titulo",
							Description: "Título da rifa",
							Required:    true,
							MaxLength:   200,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "data_sorteio",
							Description: "Data do sorteio (dd/mm/aaaa)",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "inicial",
							Description: "Número inicial das cartelas (padrão 1)",
							MinValue:    &minSeq,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "final",
							Description: "Número final das cartelas (padrão 999)",
							MinValue:    &minSeq,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "valor",
							Description: "Valor da cartela, ex: 10,00",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "premio",
							Description: "Prêmio do sorteio",
							MaxLength:   500,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "local",
							Description: "Local do sorteio",
							MaxLength:   200,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "descricao",
							Description: "Descrição da rifa",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "inicio_vendas",
							Description: "Início das vendas (dd/mm/aaaa)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "fim_vendas",
							Description: "Fim das vendas (dd/mm/aaaa)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionAttachment,
							Name:        "imagem",
							Description: "Imagem do cabeçalho das cartelas",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "listar",
					Description: "Listar as rifas cadastradas",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buscar",
					Description: "Buscar rifas por título ou prêmio",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "termo",
							Description: "Texto a procurar",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "ver",
					Description: "Ver os detalhes de uma rifa",
					Options:     []*discordgo.ApplicationCommandOption{eventIDOption("ID da rifa")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "duplicar",
					Description: "Criar uma nova rifa a partir de outra",
					Options:     []*discordgo.ApplicationCommandOption{eventIDOption("ID da rifa a copiar")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cartelas",
					Description: "Ver ou imprimir as cartelas de uma rifa",
					Options: []*discordgo.ApplicationCommandOption{
						eventIDOption("ID da rifa"),
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "pagina",
							Description: "Página a exibir (padrão 1)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "imprimir",
							Description: "Enviar todas as páginas em PNG",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "sortear",
					Description: "Abrir o sorteio de uma rifa neste canal",
					Options:     []*discordgo.ApplicationCommandOption{eventIDOption("ID da rifa")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "exportar",
					Description: "Exportar todas as rifas",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "formato",
							Description: "Formato do arquivo (padrão xlsx)",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Excel (xlsx)", Value: "xlsx"},
								{Name: "CSV", Value: "csv"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "apagar",
					Description: "Excluir uma rifa",
					Options:     []*discordgo.ApplicationCommandOption{eventIDOption("ID da rifa")},
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
