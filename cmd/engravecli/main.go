package main

import (
	"github.com/photonmill/engrave.go/pkg/cli/sh"

	_ "github.com/photonmill/engrave.go/pkg/cli/cmds/engrave"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
