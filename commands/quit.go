package commands

var Quit = Define(Definition{
	Name:        "QUIT",
	Usage:       "QUIT",
	Description: "disconnect",
}, func(ctx *Context) bool {
	ctx.OK("goodbye")
	return true
})
