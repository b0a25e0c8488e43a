package main

import (
	"github.com/jjtimmons/vhelix/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
