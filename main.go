package main

import "github.com/Rorical/codedeck/cmd"

func main() {
	cmd.Execute()
}
