package main

import "github.com/zombiz/blitz/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
