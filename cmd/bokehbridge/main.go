package main

import (
	"github.com/bokehbridge/bokehbridge/internal/cli"
)

func main() {
	cli.Execute()
}
