package main

import "example.com/socialfeed/cmd/commands"

func main() {
	commands.Execute()
}
