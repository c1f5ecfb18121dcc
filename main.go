package main

import "github.com/Rorical/LeafDesk/cmd"

func main() {
	cmd.Execute()
}
