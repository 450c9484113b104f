package main

import "github.com/tessfield/gridscope/cmd"

func main() {
	cmd.Execute()
}
