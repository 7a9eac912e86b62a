package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/medcasegen/internal/devapi"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := devapi.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
