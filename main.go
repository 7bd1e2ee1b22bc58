package main

import "github.com/FritscheLab/whiteRRabbit/cmd"

func main() {
	cmd.Execute()
}
