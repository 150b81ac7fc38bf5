package main

import "casthub_backend/internal/app"

func main() {
	app.Run()
}
