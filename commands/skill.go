package commands

import "time"

const skillCost = 10

var Skill = Define(Definition{
	Name:         "SKILL",
	Usage:        "SKILL <monster>",
	Description:  "spend energy on a heavy strike",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	if !ctx.Server.SkillLimiter().Allow(ctx.Player.Name, time.Now()) {
		ctx.Err("your focus has not returned yet")
		return false
	}
	monster, ok := findMonster(ctx, ctx.Args[0])
	if !ok {
		ctx.Err("there is no %s here to fight", ctx.Args[0])
		return false
	}
	if !ctx.Player.SpendEP(skillCost) {
		ctx.Err("not enough energy, a heavy strike costs %d ep", skillCost)
		return false
	}

	damage := ctx.Player.AttackPower(ctx.Server.World()) * 2
	resolveStrike(ctx, monster, damage)
	return false
})
