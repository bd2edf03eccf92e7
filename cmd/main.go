// cmd/main.go
package main

import (
	"user-management-api/app"
)

// @title           User Management
// @version         0.0.1
// @description     User management API with bearer-token authentication and role-based access control.

// @contact.name   API Support
// @contact.url    http://www.example.com/support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
