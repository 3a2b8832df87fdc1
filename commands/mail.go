package commands

import (
	"fmt"

	"TerminalEcho/internal/game"
)

// Mail shows the inbox with no argument, or sends a message to a player who
// may be offline.
var Mail = Define(Definition{
	Name:         "MAIL",
	Usage:        "MAIL [player message]",
	Description:  "read your mail, or send some",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	mail := ctx.Server.Mail()

	if len(ctx.Args) == 0 {
		inbox := mail.Inbox(ctx.Player.Name)
		if len(inbox) == 0 {
			ctx.Session.Send(game.TagList, "your mailbox is empty")
			return false
		}
		for _, msg := range inbox {
			marker := " "
			if !msg.Read {
				marker = "*"
			}
			ctx.Session.Send(game.TagList, fmt.Sprintf("%s [%s] %s: %s",
				marker, msg.SentAt.Format("Jan 02"), msg.From, msg.Body))
		}
		return false
	}

	if len(ctx.Args) < 2 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	to := ctx.Args[0]
	body := game.JoinArgs(ctx.Args[1:])
	if _, err := mail.Send(ctx.Player.Name, to, body); err != nil {
		ctx.Err("%v", err)
		return false
	}
	ctx.OK("mail sent to %s", to)

	if target, online := ctx.Server.Registry().Player(to); online && target.Session != nil {
		target.Session.Send(game.TagSys, "you have new mail from "+ctx.Player.Name)
	}
	return false
})
