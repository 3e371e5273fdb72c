package main

import "github.com/florinutz/gh-v2/cmd"

func main() {
	cmd.Execute()
}
