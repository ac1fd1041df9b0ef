package main

import "github.com/Skotchmaster/bistro_boss/internal/cli"

func main() {
	cli.Execute()
}
