package main

import (
	"os"

	"github.com/vidora/vidora/internal/app"
)

func main() {
	os.Exit(app.Run("vidora", run))
}
