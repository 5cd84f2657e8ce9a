package events

import (
	"fmt"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/engine/handlers"
	"necrolens-server/pkg/api"
)

func HandleItemUsed(ctx handlers.Context, p api.ItemUsedPayload) (handlers.Result, error) {
	if !ctx.Session.Inside() {
		return handlers.EmptyResult(), nil
	}
	ctx.Session.ApplyItemUse(domain.Pomander(p.ItemID))
	return handlers.Result{Publish: true}, nil
}

func HandleAltItemUsed(ctx handlers.Context, p api.ItemUsedPayload) (handlers.Result, error) {
	if !ctx.Session.Inside() {
		return handlers.EmptyResult(), nil
	}
	ctx.Session.ApplyAltItemUse(domain.Demiclone(p.ItemID))
	return handlers.Result{Publish: true}, nil
}

func HandleBonusOpened(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Session.Inside() {
		return handlers.EmptyResult(), nil
	}
	ctx.Session.MarkBonusOpened()
	return handlers.Result{Publish: true}, nil
}

// HandleBonusItemGranted - второй предмет из сундука. Привязываем его к ближайшему сундуку.
func HandleBonusItemGranted(ctx handlers.Context, p api.BonusItemPayload) (handlers.Result, error) {
	kind := domain.ParseItemKind(p.ItemKind)
	pos := toPosition(p.PlayerPos)

	chest, ok := ctx.Session.GrantBonusItem(kind, uint32(p.ItemID), pos)
	if !ok {
		return handlers.Result{
			Msg:     fmt.Sprintf("No %s chest near the player for bonus item %d", kind, p.ItemID),
			MsgType: "DEBUG",
		}, nil
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Chest %s holds a second %s", chest, kind),
		MsgType: "INFO",
		Publish: true,
	}, nil
}

func HandleInteracted(ctx handlers.Context, p api.InteractedPayload) (handlers.Result, error) {
	var id domain.EntityID
	if err := id.UnmarshalText([]byte(p.EntityID)); err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Session.MarkInteracted(id)
	return handlers.Result{Publish: true}, nil
}
