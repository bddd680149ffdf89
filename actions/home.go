package actions

import (
	"fmt"

	"github.com/gobuffalo/buffalo"

	"github.com/treconstruction/changeorderino-api/domain"
)

// HomeHandler serves up a simple identification message at the root path
func HomeHandler(c buffalo.Context) error {
	message := fmt.Sprintf("Welcome to the %s API", domain.Env.AppName)
	return renderOk(c, map[string]string{"message": message})
}
