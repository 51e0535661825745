package main

import "github.com/tldr-it-stepankutaj/reconx/cmd/reconx"

func main() {
	reconx.Execute()
}
