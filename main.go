package main

import "psxrev/cmd"

func main() {
	cmd.Execute()
}
