package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/pitwall-io/pitwall/cmd/pitwall-overlay/app"
)

func main() {
	app.NewApp().Run()
}
