package builders

import (
	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
	"github.com/bwmarrin/discordgo"
)

// Discord allows at most five components per row and five rows per message.
const (
	MaxRowComponents = 5
	MaxRows          = 5
)

// ComponentBuilder builds Discord message components
type ComponentBuilder struct {
	rows            []discordgo.MessageComponent
	currentRow      []discordgo.MessageComponent
	customIDBuilder *core.CustomIDBuilder
}

// NewComponentBuilder creates a new component builder
func NewComponentBuilder(customIDBuilder *core.CustomIDBuilder) *ComponentBuilder {
	if customIDBuilder == nil {
		customIDBuilder = core.NewCustomIDBuilder("default")
	}
	return &ComponentBuilder{
		rows:            make([]discordgo.MessageComponent, 0),
		currentRow:      make([]discordgo.MessageComponent, 0, MaxRowComponents),
		customIDBuilder: customIDBuilder,
	}
}

// customID encodes action with an optional target and args
func (b *ComponentBuilder) customID(action string, args []string) string {
	if len(args) == 0 {
		return b.customIDBuilder.Build(action).MustEncode()
	}
	return b.customIDBuilder.Button(action, args[0], args[1:]...)
}

// Button adds a button to the current row. The first arg is the target.
func (b *ComponentBuilder) Button(label string, style discordgo.ButtonStyle, action string, args ...string) *ComponentBuilder {
	b.addComponent(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: b.customID(action, args),
	})
	return b
}

// EmojiButton adds a button with emoji
func (b *ComponentBuilder) EmojiButton(label, emoji string, style discordgo.ButtonStyle, action string, args ...string) *ComponentBuilder {
	b.addComponent(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: b.customID(action, args),
		Emoji: &discordgo.ComponentEmoji{
			Name: emoji,
		},
	})
	return b
}

// DisabledButton adds a disabled button. Custom IDs must be unique within a
// message, so disabled buttons still get one.
func (b *ComponentBuilder) DisabledButton(label string, style discordgo.ButtonStyle, action string, args ...string) *ComponentBuilder {
	b.addComponent(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: b.customID(action, args),
		Disabled: true,
	})
	return b
}

// SelectMenuWithTarget adds a select menu with a target ID
func (b *ComponentBuilder) SelectMenuWithTarget(placeholder, action, target string, options []SelectOption, config ...SelectConfig) *ComponentBuilder {
	customID := b.customIDBuilder.Build(action).WithTarget(target).MustEncode()
	return b.selectMenuWithCustomID(placeholder, customID, options, config...)
}

// selectMenuWithCustomID builds the select menu on its own row
func (b *ComponentBuilder) selectMenuWithCustomID(placeholder, customID string, options []SelectOption, config ...SelectConfig) *ComponentBuilder {
	discordOptions := make([]discordgo.SelectMenuOption, len(options))
	for i, opt := range options {
		discordOptions[i] = discordgo.SelectMenuOption{
			Label:       opt.Label,
			Value:       opt.Value,
			Description: opt.Description,
			Default:     opt.Default,
		}
		if opt.Emoji != "" {
			discordOptions[i].Emoji = &discordgo.ComponentEmoji{
				Name: opt.Emoji,
			}
		}
	}

	selectMenu := discordgo.SelectMenu{
		CustomID:    customID,
		Placeholder: placeholder,
		Options:     discordOptions,
	}

	if len(config) > 0 {
		cfg := config[0]
		if cfg.MinValues > 0 {
			minVal := cfg.MinValues
			selectMenu.MinValues = &minVal
		}
		if cfg.MaxValues > 0 {
			selectMenu.MaxValues = cfg.MaxValues
		}
		selectMenu.Disabled = cfg.Disabled
	}

	// A select menu fills a whole row
	b.NewRow()
	b.currentRow = append(b.currentRow, selectMenu)
	b.NewRow()
	return b
}

// NewRow starts a new action row
func (b *ComponentBuilder) NewRow() *ComponentBuilder {
	if len(b.currentRow) > 0 {
		b.rows = append(b.rows, discordgo.ActionsRow{
			Components: b.currentRow,
		})
		b.currentRow = make([]discordgo.MessageComponent, 0, MaxRowComponents)
	}
	return b
}

// Build returns the built components
func (b *ComponentBuilder) Build() []discordgo.MessageComponent {
	b.NewRow()
	return b.rows
}

// addComponent adds a component to the current row
func (b *ComponentBuilder) addComponent(component discordgo.MessageComponent) {
	if len(b.currentRow) >= MaxRowComponents {
		b.NewRow()
	}

	b.currentRow = append(b.currentRow, component)
}

// SelectOption represents an option in a select menu
type SelectOption struct {
	Label       string
	Value       string
	Description string
	Emoji       string
	Default     bool
}

// SelectConfig configures a select menu
type SelectConfig struct {
	MinValues int
	MaxValues int
	Disabled  bool
}

// Common button styles helpers
func (b *ComponentBuilder) PrimaryButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.PrimaryButton, action, args...)
}

func (b *ComponentBuilder) SecondaryButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.SecondaryButton, action, args...)
}

func (b *ComponentBuilder) SuccessButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.SuccessButton, action, args...)
}

func (b *ComponentBuilder) DangerButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.DangerButton, action, args...)
}

// ConfirmationButtons adds Yes/No confirmation buttons
func (b *ComponentBuilder) ConfirmationButtons(confirmAction, cancelAction, targetID string) *ComponentBuilder {
	b.DangerButton("Yes, delete", confirmAction, targetID)
	b.SecondaryButton("Keep it", cancelAction, targetID)
	return b
}
