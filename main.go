package main

import "github.com/alphacrucible/news-etl/cmd"

func main() {
	cmd.Execute()
}
