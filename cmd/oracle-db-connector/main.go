package main

import (
	"github.com/opsbridge/oracle-db-connector/cmd/oracle-db-connector/app"
)

func main() {
	app.New().Run()
}
