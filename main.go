package main

import "github.com/sherut/sherut/cmd"

func main() {
	cmd.Execute()
}
