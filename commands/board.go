package commands

import (
	"fmt"
	"strings"

	"TerminalEcho/internal/game"
)

// Board reads and writes public bulletin boards. With no argument it lists
// boards, with one it shows a board, with more it posts to one.
var Board = Define(Definition{
	Name:         "BOARD",
	Usage:        "BOARD [board] [message]",
	Description:  "read or post to a bulletin board",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	boards := ctx.Server.Boards()

	switch {
	case len(ctx.Args) == 0:
		names := boards.Boards()
		if len(names) == 0 {
			ctx.Session.Send(game.TagList, "no boards have any posts yet")
			return false
		}
		ctx.Session.Send(game.TagList, "boards: "+strings.Join(names, ", "))
		return false

	case len(ctx.Args) == 1:
		name := ctx.Args[0]
		posts := boards.Posts(name)
		if len(posts) == 0 {
			ctx.Session.Send(game.TagList, "board "+strings.ToLower(name)+" is empty")
			return false
		}
		for _, post := range posts {
			ctx.Session.Send(game.TagList, fmt.Sprintf("[%s] %s: %s",
				post.CreatedAt.Format("Jan 02"), post.Author, post.Body))
		}
		return false

	default:
		name := ctx.Args[0]
		body := game.JoinArgs(ctx.Args[1:])
		if _, err := boards.Post(name, ctx.Player.Name, body); err != nil {
			ctx.Err("%v", err)
			return false
		}
		ctx.OK("posted to %s", strings.ToLower(name))
		return false
	}
})
