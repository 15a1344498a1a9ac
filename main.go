package main

import "souq/cmd"

func main() {
	cmd.Execute()
}
