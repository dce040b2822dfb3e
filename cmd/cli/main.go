package main

import (
	"github.com/assassin-game/assassin-go/internal/cli"
)

func main() {
	cli.Execute()
}
