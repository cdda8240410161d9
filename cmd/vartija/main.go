package main

import "github.com/jnylund/vartija/cmd/vartija/commands"

func main() {
	commands.Execute()
}
