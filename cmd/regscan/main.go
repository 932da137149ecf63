package main

import "github.com/regscan/regscan/internal/cli"

func main() {
	cli.Execute()
}
