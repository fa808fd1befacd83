package routers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/KirkDiggler/pgte-bot/internal/discord/builders"
	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/KirkDiggler/pgte-bot/internal/services"
	"github.com/KirkDiggler/pgte-bot/internal/services/character"
	"github.com/bwmarrin/discordgo"
)

// SheetRouter handles the /pgte command and the buttons on sheet messages
type SheetRouter struct {
	router    *core.Router
	service   character.Service
	idBuilder *core.CustomIDBuilder
}

// NewSheetRouter creates the sheet router and registers it with the pipeline.
// Middleware applies to sheet routes only.
func NewSheetRouter(pipeline *core.Pipeline, provider *services.Provider, middleware ...core.Middleware) *SheetRouter {
	router := core.NewRouter(CommandName, pipeline)

	sr := &SheetRouter{
		router:    router,
		service:   provider.CharacterService,
		idBuilder: router.GetCustomIDBuilder(),
	}

	router.Use(middleware...)

	sr.registerRoutes()

	router.Register()

	return sr
}

// registerRoutes sets up all sheet routes
func (r *SheetRouter) registerRoutes() {
	// Slash commands
	r.router.SubcommandGroupFunc(CommandName, "sheet", "create", r.handleCreate)
	r.router.SubcommandGroupFunc(CommandName, "sheet", "show", r.handleShow)
	r.router.SubcommandGroupFunc(CommandName, "sheet", "list", r.handleList)
	r.router.SubcommandGroupFunc(CommandName, "sheet", "set", r.handleSet)
	r.router.SubcommandGroupFunc(CommandName, "sheet", "fields", r.handleFields)
	r.router.SubcommandGroupFunc(CommandName, "sheet", "delete", r.handleDelete)

	// Sheet message components
	r.router.ComponentFunc(actionView, r.handleView)
	r.router.ComponentFunc(actionAdjust, r.handleAdjust)
	r.router.ComponentFunc(actionMark, r.handleMark)
	r.router.ComponentFunc(actionQuantity, r.handleQuantity)
	r.router.ComponentFunc(actionRoll, r.handleRoll)
	r.router.ComponentFunc(actionEdit, r.handleEdit)
	r.router.ComponentFunc(actionFirstUse, r.handleFirstUse)
	r.router.ComponentFunc(actionOpen, r.handleOpen)
	r.router.ComponentFunc(actionDeleteYes, r.handleDeleteConfirm)
	r.router.ComponentFunc(actionDeleteNo, r.handleDeleteCancel)
	r.router.ComponentFunc(actionNoop, r.handleNoop)

	// Modals
	r.router.ModalFunc(modalAspect, r.handleAspectSubmit)
}

// Router exposes the underlying router for tests and wiring
func (r *SheetRouter) Router() *core.Router {
	return r.router
}

// sheetMessage renders a page as embed plus buttons
func (r *SheetRouter) sheetMessage(view *sheet.View, page builders.Page) *core.Response {
	return core.NewResponse("").
		WithEmbeds(builders.SheetEmbed(view, page)).
		WithComponents(sheetComponents(r.idBuilder, view, page)...)
}

// updateSheet replaces the sheet message a component belongs to
func (r *SheetRouter) updateSheet(view *sheet.View, page builders.Page) *core.HandlerResult {
	return &core.HandlerResult{
		Response: r.sheetMessage(view, page).AsUpdate(),
	}
}

// parseCustomID parses the component or modal custom ID and requires at
// least n args after the target.
func parseCustomID(ctx *core.InteractionContext, n int) (*core.CustomID, error) {
	customID, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil {
		return nil, core.NewValidationError("Invalid button")
	}
	if customID.Target == "" || len(customID.Args) < n {
		return nil, core.NewValidationError("Invalid button")
	}
	return customID, nil
}

func parseDelta(s string) (int, error) {
	delta, err := strconv.Atoi(s)
	if err != nil {
		return 0, core.NewValidationError("Invalid button")
	}
	return delta, nil
}

// handleCreate handles /pgte sheet create
func (r *SheetRouter) handleCreate(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	name := strings.TrimSpace(ctx.GetStringParam("name"))
	if name == "" {
		return nil, core.NewValidationError("Character name is required")
	}

	kind := sheet.KindCharacter
	if raw := ctx.GetStringParam("kind"); raw != "" {
		parsed, ok := sheet.ParseKind(raw)
		if !ok {
			return nil, core.NewValidationError(fmt.Sprintf("Unknown sheet kind %q", raw))
		}
		kind = parsed
	}

	view, err := r.service.Create(ctx.Context, &character.CreateInput{
		UserID:  ctx.UserID,
		RealmID: ctx.GuildID,
		Name:    name,
		Kind:    kind,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Discord] User %s created %s sheet %s", ctx.UserID, kind, view.ID)

	return &core.HandlerResult{
		Response: r.sheetMessage(view, builders.PageMain),
	}, nil
}

// handleShow handles /pgte sheet show
func (r *SheetRouter) handleShow(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	characterID := strings.TrimSpace(ctx.GetStringParam("id"))
	if characterID == "" {
		return nil, core.NewValidationError("Character ID is required")
	}

	view, err := r.service.Get(ctx.Context, characterID)
	if err != nil {
		return nil, err
	}

	page := builders.ParsePage(ctx.GetStringParam("page"))
	return &core.HandlerResult{
		Response: r.sheetMessage(view, page),
	}, nil
}

// handleList handles /pgte sheet list
func (r *SheetRouter) handleList(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	views, err := r.service.ListByOwner(ctx.Context, ctx.UserID, ctx.GuildID)
	if err != nil {
		return nil, err
	}

	response := core.NewResponse("").
		WithEmbeds(builders.SheetListEmbed(views)).
		AsEphemeral()
	if components := listComponents(r.idBuilder, ctx.UserID, views); len(components) > 0 {
		response.WithComponents(components...)
	}

	return &core.HandlerResult{Response: response}, nil
}

// handleSet handles /pgte sheet set
func (r *SheetRouter) handleSet(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	characterID := strings.TrimSpace(ctx.GetStringParam("id"))
	path := strings.TrimSpace(ctx.GetStringParam("field"))
	if characterID == "" || path == "" {
		return nil, core.NewValidationError("Character ID and field are required")
	}

	view, err := r.service.SetField(ctx.Context, &character.SetFieldInput{
		UserID:      ctx.UserID,
		CharacterID: characterID,
		Path:        path,
		Value:       ctx.GetStringParam("value"),
	})
	if err != nil {
		return nil, err
	}

	return &core.HandlerResult{
		Response: r.sheetMessage(view, pageForPath(path)).AsEphemeral(),
	}, nil
}

// pageForPath picks the sheet page that shows a field
func pageForPath(path string) builders.Page {
	section, _, _ := strings.Cut(path, ".")
	switch section {
	case "resources":
		return builders.PageResources
	case "aspects", "bonusDice":
		return builders.PageAspects
	case "equipment", "notes":
		return builders.PageEquipment
	}
	return builders.PageMain
}

// handleFields handles /pgte sheet fields
func (r *SheetRouter) handleFields(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	groups := make(map[string][]string)
	var order []string
	for _, path := range sheet.EditablePaths() {
		section, _, _ := strings.Cut(path, ".")
		if _, seen := groups[section]; !seen {
			order = append(order, section)
		}
		groups[section] = append(groups[section], "`"+path+"`")
	}

	embed := builders.NewEmbed().
		Title("Editable fields").
		Description("Use `/pgte sheet set id field value`. Dice accept d4 to d20, flags accept yes or no.").
		Color(builders.ColorInfo)
	for _, section := range order {
		embed.Field(section, strings.Join(groups[section], "\n"), true)
	}

	return &core.HandlerResult{
		Response: core.NewEmbedResponse(embed.Build()).AsEphemeral(),
	}, nil
}

// handleDelete handles /pgte sheet delete by asking for confirmation
func (r *SheetRouter) handleDelete(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	characterID := strings.TrimSpace(ctx.GetStringParam("id"))
	if characterID == "" {
		return nil, core.NewValidationError("Character ID is required")
	}

	view, err := r.service.Get(ctx.Context, characterID)
	if err != nil {
		return nil, err
	}
	if !view.IsOwnedBy(ctx.UserID) {
		return nil, core.NewForbiddenError("You can only delete your own characters")
	}

	embed := builders.WarningEmbed(
		"Delete Character?",
		fmt.Sprintf("Are you sure you want to delete **%s**? This cannot be undone.", view.DisplayName()),
	).Build()
	components := builders.NewComponentBuilder(r.idBuilder).
		ConfirmationButtons(actionDeleteYes, actionDeleteNo, view.ID).
		Build()

	return &core.HandlerResult{
		Response: core.NewResponse("").
			WithEmbeds(embed).
			WithComponents(components...).
			AsEphemeral(),
	}, nil
}

// noComponents clears the buttons of an updated message
var noComponents = []discordgo.MessageComponent{}

// handleDeleteConfirm deletes the character after confirmation
func (r *SheetRouter) handleDeleteConfirm(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 0)
	if err != nil {
		return nil, err
	}

	if err := r.service.Delete(ctx.Context, ctx.UserID, customID.Target); err != nil {
		return nil, err
	}

	return &core.HandlerResult{
		Response: core.NewUpdateResponse(builders.SuccessEmbed("Character Deleted", "The character sheet has been deleted.").Build()).
			WithComponents(noComponents...),
	}, nil
}

// handleDeleteCancel dismisses the confirmation
func (r *SheetRouter) handleDeleteCancel(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	return &core.HandlerResult{
		Response: core.NewUpdateResponse(builders.InfoEmbed("Cancelled", "Character deletion cancelled.").Build()).
			WithComponents(noComponents...),
	}, nil
}

// handleView switches the page of a sheet message
func (r *SheetRouter) handleView(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 0)
	if err != nil {
		return nil, err
	}

	page := builders.PageMain
	if len(customID.Args) > 0 {
		page = builders.ParsePage(customID.Args[0])
	}

	view, err := r.service.Get(ctx.Context, customID.Target)
	if err != nil {
		return nil, err
	}
	return r.updateSheet(view, page), nil
}

// handleAdjust handles pgte:adj:<id>:<track>:<delta>
func (r *SheetRouter) handleAdjust(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 2)
	if err != nil {
		return nil, err
	}
	track, ok := sheet.ParseTrack(customID.Args[0])
	if !ok {
		return nil, core.NewValidationError("Invalid button")
	}
	delta, err := parseDelta(customID.Args[1])
	if err != nil {
		return nil, err
	}

	view, err := r.service.AdjustTrack(ctx.Context, &character.AdjustTrackInput{
		UserID:      ctx.UserID,
		CharacterID: customID.Target,
		Track:       track,
		Delta:       delta,
	})
	if err != nil {
		return nil, err
	}
	return r.updateSheet(view, builders.PageResources), nil
}

// handleMark handles pgte:mark:<id>:<track>:<index>
func (r *SheetRouter) handleMark(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 2)
	if err != nil {
		return nil, err
	}
	track, ok := sheet.ParseTrack(customID.Args[0])
	if !ok {
		return nil, core.NewValidationError("Invalid button")
	}
	index, err := strconv.Atoi(customID.Args[1])
	if err != nil {
		return nil, core.NewValidationError("Invalid button")
	}

	view, err := r.service.ClickMarker(ctx.Context, &character.ClickMarkerInput{
		UserID:      ctx.UserID,
		CharacterID: customID.Target,
		Track:       track,
		Index:       index,
	})
	if err != nil {
		return nil, err
	}
	return r.updateSheet(view, builders.PageResources), nil
}

// handleQuantity handles pgte:qty:<id>:<slot>:<delta>
func (r *SheetRouter) handleQuantity(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 2)
	if err != nil {
		return nil, err
	}
	delta, err := parseDelta(customID.Args[1])
	if err != nil {
		return nil, err
	}

	view, err := r.service.AdjustQuantity(ctx.Context, &character.AdjustQuantityInput{
		UserID:      ctx.UserID,
		CharacterID: customID.Target,
		Slot:        customID.Args[0],
		Delta:       delta,
	})
	if err != nil {
		return nil, err
	}
	return r.updateSheet(view, builders.PageEquipment), nil
}

// handleRoll handles pgte:roll:<id>:<kind>[:key[:type]]. The result is
// posted to the channel by the service; the sheet message is left as is.
func (r *SheetRouter) handleRoll(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 1)
	if err != nil {
		return nil, err
	}

	req := sheet.RollRequest{Kind: sheet.RollKind(customID.Args[0])}
	if len(customID.Args) > 1 {
		req.Key = customID.Args[1]
	}
	if len(customID.Args) > 2 {
		req.Type = customID.Args[2]
	}

	if _, err := r.service.Roll(ctx.Context, &character.RollInput{
		UserID:      ctx.UserID,
		UserName:    ctx.UserName,
		CharacterID: customID.Target,
		ChannelID:   ctx.ChannelID,
		Request:     req,
	}); err != nil {
		return nil, err
	}

	return &core.HandlerResult{Response: core.NewAcknowledgeResponse()}, nil
}

// handleEdit opens the aspect editor for pgte:edit:<id>:<slot>
func (r *SheetRouter) handleEdit(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 1)
	if err != nil {
		return nil, err
	}
	slot := customID.Args[0]
	if !isAspectSlot(slot) {
		return nil, core.NewValidationError("Invalid button")
	}

	view, err := r.service.Get(ctx.Context, customID.Target)
	if err != nil {
		return nil, err
	}
	if !view.IsOwnedBy(ctx.UserID) {
		return nil, core.NewForbiddenError("Only the owner can edit this sheet")
	}

	return &core.HandlerResult{Response: aspectModal(r.idBuilder, view, slot)}, nil
}

// handleAspectSubmit stores the fields of the aspect editor that changed
func (r *SheetRouter) handleAspectSubmit(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 1)
	if err != nil {
		return nil, err
	}
	slot := customID.Args[0]
	if !isAspectSlot(slot) {
		return nil, core.NewValidationError("Invalid form")
	}

	view, err := r.service.Get(ctx.Context, customID.Target)
	if err != nil {
		return nil, err
	}
	current := view.Sheet.Aspects[slot]
	submitted := []struct {
		name, old string
	}{
		{"name", current.Name},
		{"nature", current.Nature},
		{"passive", current.Passive},
		{"active", current.Active},
	}

	for _, field := range submitted {
		value := strings.TrimSpace(ctx.GetStringParam(field.name))
		if value == field.old {
			continue
		}
		view, err = r.service.SetField(ctx.Context, &character.SetFieldInput{
			UserID:      ctx.UserID,
			CharacterID: customID.Target,
			Path:        "aspects." + slot + "." + field.name,
			Value:       value,
		})
		if err != nil {
			return nil, err
		}
	}

	return r.updateSheet(view, builders.PageAspects), nil
}

// handleFirstUse toggles the first-use mark of pgte:first:<id>:<slot>
func (r *SheetRouter) handleFirstUse(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := parseCustomID(ctx, 1)
	if err != nil {
		return nil, err
	}
	slot := customID.Args[0]
	if !isAspectSlot(slot) {
		return nil, core.NewValidationError("Invalid button")
	}

	view, err := r.service.Get(ctx.Context, customID.Target)
	if err != nil {
		return nil, err
	}

	view, err = r.service.SetField(ctx.Context, &character.SetFieldInput{
		UserID:      ctx.UserID,
		CharacterID: customID.Target,
		Path:        "aspects." + slot + ".firstUse",
		Value:       strconv.FormatBool(!view.Sheet.Aspects[slot].FirstUse),
	})
	if err != nil {
		return nil, err
	}
	return r.updateSheet(view, builders.PageAspects), nil
}

// handleOpen posts the sheet picked from the list menu to the channel
func (r *SheetRouter) handleOpen(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	values := ctx.Interaction.MessageComponentData().Values
	if len(values) == 0 {
		return nil, core.NewValidationError("No character selected")
	}

	view, err := r.service.Get(ctx.Context, values[0])
	if err != nil {
		return nil, err
	}
	return &core.HandlerResult{
		Response: r.sheetMessage(view, builders.PageMain),
	}, nil
}

// handleNoop acknowledges presses on label buttons
func (r *SheetRouter) handleNoop(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	return &core.HandlerResult{Response: core.NewAcknowledgeResponse()}, nil
}

func isAspectSlot(slot string) bool {
	for _, s := range sheet.AspectSlots {
		if s == slot {
			return true
		}
	}
	return false
}
