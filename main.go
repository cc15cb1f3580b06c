package main

import "github.com/mselser95/game-actions/cmd"

func main() {
	cmd.Execute()
}
