package main

import "github.com/getveil/veil/cmd/veil"

func main() {
	cmd.Execute()
}
