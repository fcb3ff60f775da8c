package main

import "github.com/samvad-hq/samvad-api-client/internal/cli"

func main() {
	cli.Execute()
}
