package main

import "linkie-web/internal/cli"

func main() {
	cli.Execute()
}
