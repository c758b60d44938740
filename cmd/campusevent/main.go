// Package main is the entry point for the CampusEvent API.
//
// @title                      CampusEvent API
// @version                    1.0
// @description                Campus event management with JWT sessions and API-key protected deletes.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the session token.
// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       x-api-key
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
