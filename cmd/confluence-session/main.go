package main

import "github.com/confluencetools/confluence-session/cmd/confluence-session/commands"

func main() {
	commands.Execute()
}
