package main

import (
	"github.com/c9s/zigzag/pkg/cmd"
)

func main() {
	cmd.Execute()
}
