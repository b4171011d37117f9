package main

import "tdc_backend/internal/app"

func main() {
	app.Run()
}
