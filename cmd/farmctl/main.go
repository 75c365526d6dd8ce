package main

import (
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/cli"
)

func main() {
	cli.Execute()
}
