package main

import "github.com/dsmithnh3/grokicad-sub002/cmd/grokicad/cmd"

func main() {
	cmd.Execute()
}
