package main

import "github.com/jsweb-dev/jsweb/internal/cli"

func main() {
	cli.Execute()
}
