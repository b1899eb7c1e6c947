package main

import "github.com/seo-optimizer/contentlens/cmd"

func main() {
	cmd.Execute()
}
