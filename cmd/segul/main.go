package main

import (
	"segul/internal/app"
	"segul/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
