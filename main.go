package main

import "github.com/example/langseed/cmd"

func main() {
	cmd.Execute()
}
