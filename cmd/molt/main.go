package main

import "github.com/moltbuild/molt/cmd/molt/internal"

func main() {
	internal.Execute()
}
