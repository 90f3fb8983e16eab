package main

import "osindexer/internal/cli"

func main() {
	cli.Execute()
}
