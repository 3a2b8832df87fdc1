package commands

var Look = Define(Definition{
	Name:         "LOOK",
	Usage:        "LOOK",
	Description:  "describe your surroundings",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	ctx.Server.SendRoomView(ctx.Session, ctx.Player)
	return false
})
