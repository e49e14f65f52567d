package main

import "nathanbeddoewebdev/conform/cmd"

func main() {
	cmd.Execute()
}
