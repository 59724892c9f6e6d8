package main

import "github.com/DrSkyle/graphkit/cmd/graphkit/commands"

func main() {
	commands.Execute()
}
