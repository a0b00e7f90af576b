package main

import "github.com/craftgear/extract-model-info-json/cmd"

func main() {
	cmd.Execute()
}
