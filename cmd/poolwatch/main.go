package main

import "github.com/vietddude/poolwatch/internal/cli"

func main() {
	cli.Execute()
}
