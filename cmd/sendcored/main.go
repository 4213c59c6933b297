package main

import "github.com/haljin/sendcore/internal/cli"

func main() {
	cli.Execute()
}
