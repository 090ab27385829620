package main

import (
	"fastfood-ratings/cmd/ratings/commands"
	"fastfood-ratings/lib/serviceutil"
)

func main() {
	ctx, stop := serviceutil.SignalContext()
	defer stop()
	commands.ExecuteContext(ctx)
}
