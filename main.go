package main

import "github.com/apermo/friends/cmd"

func main() {
	cmd.Execute()
}
