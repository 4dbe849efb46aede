package main

import (
	"flag"

	"go.uber.org/zap"

	"inkwell/crud"
	"inkwell/feed"
	"inkwell/http"
	"inkwell/logger"
)

// main is the app's entry point.
func main() {
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*productionBool)

	must(logger.Init(config.LogLevel, config.IsProd()))
	defer logger.Sync()

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	must(Open(db, config.IsProd()))
	defer Close(db)
	must(AutoMigrate(db))

	// The single-slot cache for the rendered global feed. Post create
	// and delete clear it; nothing else does.
	cache := feed.NewCache()

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(cache),
		crud.WithGroup(),
		crud.WithPost(cache),
		crud.WithComment(),
		crud.WithFollow(),
		crud.WithImage(),
	)
	must(err)

	feedService := feed.NewService(
		services.Post,
		services.Group,
		services.User,
		services.Follow,
		cache,
		config.PageSize,
	)

	// Set up a webserver and serve the app.
	server := http.NewServer(config.IsProd(), config.TokenSecret, config.CSRFKey, services, feedService)
	if err := server.Run(config.Port); err != nil {
		logger.L.Fatal("server stopped", zap.Error(err))
	}
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
