package main

import "tankograd/internal/app"

// @title           Tankograd Login API
// @version         1.0
// @description     Выдача и погашение одноразовых кодов входа через Telegram.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
