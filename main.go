package main

import "github.com/Pamacea/shadow-secret/cmd"

func main() {
	cmd.Execute()
}
