package main

import "partsadmin/cmd/partsctl/commands"

func main() {
	commands.Execute()
}
