package main

import (
	"github.com/Mistobaan/Abstractions/cli"
)

func main() {
	cli.Execute()
}
