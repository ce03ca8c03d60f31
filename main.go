package main

import "github.com/omega-x/kgprep/cmd"

func main() {
	cmd.Execute()
}
