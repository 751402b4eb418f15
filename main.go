package main

import "clipnote/cmd"

func main() {
	cmd.Execute()
}
