package main

import "github.com/kamilpajak/designlens/cmd/designlens"

func main() {
	designlens.Execute()
}
