package commands

var Equip = Define(Definition{
	Name:         "EQUIP",
	Usage:        "EQUIP <item>",
	Description:  "wear or wield an item",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	id := ctx.Args[0]
	world := ctx.Server.World()
	def, ok := world.Item(id)
	if !ok || !ctx.Player.HasItem(id, 1) {
		ctx.Err("you are not carrying %s", id)
		return false
	}
	if def.Type != "equipment" || def.Slot == "" {
		ctx.Err("%s cannot be equipped", def.Name)
		return false
	}
	if !ctx.Player.RemoveItem(id, 1) {
		ctx.Err("you are not carrying %s", id)
		return false
	}

	previous := ctx.Player.Equip(def.Slot, id)
	if previous != "" {
		ctx.OK("you equip %s, stowing %s", def.Name, itemName(world, previous))
		return false
	}
	ctx.OK("you equip %s", def.Name)
	return false
})
