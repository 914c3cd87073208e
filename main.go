package main

import "github.com/oagunth/oagunth-cli/cmd"

func main() {
	cmd.Execute()
}
