package commands

var Use = Define(Definition{
	Name:         "USE",
	Usage:        "USE <item>",
	Description:  "consume an item from your inventory",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	id := ctx.Args[0]
	def, ok := ctx.Server.World().Item(id)
	if !ok || !ctx.Player.HasItem(id, 1) {
		ctx.Err("you are not carrying %s", id)
		return false
	}
	if def.Type != "consumable" {
		ctx.Err("%s cannot be used", def.Name)
		return false
	}
	if !ctx.Player.RemoveItem(id, 1) {
		ctx.Err("you are not carrying %s", id)
		return false
	}

	switch def.Effect {
	case "heal":
		applied := ctx.Player.Heal(def.Power)
		ctx.OK("you use %s and recover %d hp", def.Name, applied)
	case "energize":
		applied := ctx.Player.Energize(def.Power)
		ctx.OK("you use %s and recover %d ep", def.Name, applied)
	default:
		ctx.OK("you use %s, nothing obvious happens", def.Name)
	}
	return false
})
