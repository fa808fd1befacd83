package routers

import (
	"fmt"
	"log"

	"github.com/KirkDiggler/pgte-bot/internal/discord/builders"
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/bwmarrin/discordgo"
)

// CommandName is the top-level slash command and the custom ID domain.
const CommandName = "pgte"

// CommandRegistrar is the part of *discordgo.Session used to register
// slash commands.
type CommandRegistrar interface {
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
}

var _ CommandRegistrar = (*discordgo.Session)(nil)

// Commands returns the slash command definitions served by SheetRouter.
func Commands() []*discordgo.ApplicationCommand {
	idOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "id",
		Description: "Character ID (see /pgte sheet list)",
		Required:    true,
	}

	kindChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(sheet.Kinds))
	for _, kind := range sheet.Kinds {
		kindChoices = append(kindChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  builders.KindLabel(kind),
			Value: string(kind),
		})
	}

	pageChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(builders.Pages))
	for _, page := range builders.Pages {
		pageChoices = append(pageChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  page.Label(),
			Value: string(page),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandName,
			Description: "PGTE character sheets",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "sheet",
					Description: "Manage character sheets",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "create",
							Description: "Create a new character sheet",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "name",
									Description: "Character name",
									Required:    true,
									MaxLength:   100,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "kind",
									Description: "Sheet kind (default: character)",
									Choices:     kindChoices,
								},
							},
						},
						{
							Name:        "show",
							Description: "Post a character sheet to this channel",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								idOption,
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "page",
									Description: "Which view to open",
									Choices:     pageChoices,
								},
							},
						},
						{
							Name:        "list",
							Description: "List your character sheets",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
						{
							Name:        "set",
							Description: "Set one field of a sheet",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								idOption,
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "field",
									Description: "Field path, e.g. stats.violence.value (see /pgte sheet fields)",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "value",
									Description: "New value",
									Required:    true,
									MaxLength:   sheet.MaxTextLength,
								},
							},
						},
						{
							Name:        "fields",
							Description: "List the fields /pgte sheet set accepts",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
						{
							Name:        "delete",
							Description: "Delete one of your character sheets",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options:     []*discordgo.ApplicationCommandOption{idOption},
						},
					},
				},
			},
		},
	}
}

// RegisterCommands creates the slash commands, globally when guildID is
// empty.
func RegisterCommands(s CommandRegistrar, appID, guildID string) error {
	for _, cmd := range Commands() {
		if _, err := s.ApplicationCommandCreate(appID, guildID, cmd); err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		log.Printf("[Discord] Registered command: %s", cmd.Name)
	}
	return nil
}
