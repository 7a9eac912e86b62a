package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/medcasegen/internal/web"
	"github.com/dmitrijs2005/medcasegen/internal/web/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := web.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
