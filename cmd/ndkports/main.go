package main

import "ndkports/internal/cli"

func main() {
	cli.Execute()
}
