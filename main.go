package main

import "github.com/fazecat/signalpilot/internal/cli"

func main() {
	cli.Execute()
}
