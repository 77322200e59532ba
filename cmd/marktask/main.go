package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("marktask: ")

	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		log.Fatal(err)
	}
}
