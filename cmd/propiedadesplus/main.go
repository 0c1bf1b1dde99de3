package main

import (
	"log"

	"github.com/avillagran/propiedadesplus/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalln("Error creating the application:", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		log.Fatalln("Error running the application:", err)
	}
}
