package commands

import (
	"errors"

	"TerminalEcho/internal/game"
)

var Login = Define(Definition{
	Name:        "LOGIN",
	Usage:       "LOGIN <name>",
	Description: "claim a name and enter the world",
}, func(ctx *Context) bool {
	if ctx.Session.Authenticated() {
		ctx.Err("you are already logged in")
		return false
	}
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}

	p, err := ctx.Server.CompleteLogin(ctx.Session, ctx.Args[0])
	switch {
	case err == nil:
	case errors.Is(err, game.ErrAlreadyOnline):
		ctx.Err("that name is already online")
		return false
	case errors.Is(err, game.ErrServerFull):
		ctx.Err("the server is full, try again later")
		return false
	default:
		ctx.Err("%v", err)
		return false
	}

	ctx.OK("welcome, %s", p.Name)
	ctx.Server.SendRoomView(ctx.Session, p)
	ctx.Server.DeliverMail(ctx.Session, p)
	p.RecordQuestEvent(ctx.Server.World(), "visit", ctx.Server.Registry().RoomOf(p))
	return false
})
