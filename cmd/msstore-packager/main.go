package main

import "msstore-packager/internal/cli"

func main() {
	cli.Execute()
}
