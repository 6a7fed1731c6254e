package main

import "thermo-guard/internal/server"

func main() {
	server.Run()
}
