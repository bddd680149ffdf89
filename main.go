package main

import (
	"context"
	"os"

	"github.com/gobuffalo/buffalo/servers"

	"github.com/treconstruction/changeorderino-api/actions"
	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/queue"
)

// main is the starting point for your Buffalo application.
// You can feel free and add to this `main` method, change
// what it does, etc...
// All we ask is that, at some point, you make sure to
// call `app.Serve()`, unless you don't want to start your
// application that is. :)
func main() {
	if err := queue.Init(); err != nil {
		log.Fatalf("error initializing email queue: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.ConsumeEmails(ctx)

	app := actions.App()
	if err := app.Serve(servers.New()); err != nil {
		if err.Error() != "context canceled" {
			log.Fatalf("error serving app: %s", err)
		}
		os.Exit(0)
	}
}

/*
# Notes about `main.go`

## SSL Support

We recommend placing your application behind a proxy, such as
Apache or Nginx and letting them do the SSL heavy lifting
for you. https://gobuffalo.io/en/docs/proxy

## Buffalo Build

When `buffalo build` is run to compile your binary, this `main`
function will be at the heart of that binary. It is expected
that your `main` function will start your application using
the `app.Serve()` method.

*/
