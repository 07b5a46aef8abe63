package main

import (
	"github.com/edagames/arena/internal/cli"
)

func main() {
	cli.Execute()
}
