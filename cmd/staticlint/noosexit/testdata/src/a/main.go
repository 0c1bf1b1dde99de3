package main

import (
	"fmt"
	"os"
)

func exitHelper() {
	os.Exit(1) // helper functions are allowed to exit
}

func main() {
	fmt.Println("starting")
	os.Exit(1) // want "avoid using os.Exit in main.main"
}
