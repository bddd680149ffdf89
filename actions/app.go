// ChangeOrderino API
//
// Backend for tracking construction Time & Materials change orders, from
// field entry through GC approval and payment.
//
//	Schemes: https
//	Host: localhost
//	BasePath: /
//	Version: 0.0.1
//	License: MIT http://opensource.org/licenses/MIT
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	SecurityDefinitions:
//	oauth2:
//	    type: oauth2
//	    authorizationUrl: /auth/login
//	    scopes:
//	      all: scopes are not used at this time
//	    flow: implicit
//
// swagger:meta
package actions

import (
	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/buffalo-pop/v3/pop/popmw"
	contenttype "github.com/gobuffalo/mw-contenttype"
	mwi18n "github.com/gobuffalo/mw-i18n/v2"
	paramlogger "github.com/gobuffalo/mw-paramlogger"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/job"
	"github.com/treconstruction/changeorderino-api/listeners"
	"github.com/treconstruction/changeorderino-api/locales"
	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/models"
)

var app *buffalo.App

// App declares all routes and middleware. Routing and middleware are declared
// TOP -> DOWN: adding a middleware to `app` after declaring a group leaves
// that group without the new middleware, and routes are matched in the order
// they are declared.
func App() *buffalo.App {
	if app == nil {
		app = buffalo.New(buffalo.Options{
			Env: domain.Env.GoEnv,
			PreWares: []buffalo.PreWare{
				cors.New(cors.Options{
					AllowCredentials: true,
					AllowedOrigins:   []string{domain.Env.UIURL},
					AllowedMethods:   []string{"HEAD", "GET", "POST", "PUT", "PATCH", "DELETE"},
					AllowedHeaders:   []string{"*"},
				}).Handler,
			},
			SessionName:  "_changeorderino_api_session",
			SessionStore: sessions.NewCookieStore([]byte(domain.Env.SessionSecret)),
		})

		var err error
		domain.T, err = mwi18n.New(locales.FS, "en")
		if err != nil {
			_ = app.Stop(err)
		}
		app.Use(domain.T.Middleware())

		app.Use(log.SentryMiddleware)

		// Log request parameters (filters apply)
		app.Use(paramlogger.ParameterLogger)

		// Set the request content type to JSON
		app.Use(contenttype.Set("application/json"))

		// Wraps each request in a transaction
		app.Use(popmw.Transaction(models.DB))

		// Authenticate the bearer token on everything except the public
		// routes skipped below
		app.Use(AuthN)
		app.Middleware.Skip(AuthN, HomeHandler, statusHandler,
			authRequest, authCallback, authDestroy,
			approvalsView, approvalsSubmit)

		app.GET("/", HomeHandler)
		app.GET("/status", statusHandler)

		authGroup := app.Group("/auth")
		authGroup.Middleware.Skip(AuthN, authRequest, authCallback, authDestroy)
		authGroup.POST("/login", authRequest)
		authGroup.GET("/callback", authCallback)
		authGroup.POST("/callback", authCallback)
		authGroup.GET("/logout", authDestroy)

		// GC approval links, authenticated only by the emailed token
		approvalsGroup := app.Group("/approvals")
		approvalsGroup.Middleware.Skip(AuthN, approvalsView, approvalsSubmit)
		approvalsGroup.GET("/{token}", approvalsView)
		approvalsGroup.POST("/{token}", approvalsSubmit)

		// users
		usersGroup := app.Group("/" + domain.TypeUser)
		usersGroup.Use(AuthZ)
		usersGroup.Middleware.Skip(AuthZ, usersMe)
		usersGroup.GET("/", usersList)
		usersGroup.GET("/me", usersMe)
		usersGroup.GET("/{id}", usersView)

		// projects
		projectsGroup := app.Group("/" + domain.TypeProject)
		projectsGroup.Use(AuthZ)
		projectsGroup.GET("/", projectsList)
		projectsGroup.POST("/", projectsCreate)
		projectsGroup.GET("/{id}", projectsView)
		projectsGroup.PUT("/{id}", projectsUpdate)
		projectsGroup.DELETE("/{id}", projectsDelete)

		// T&M tickets and their line items
		tnmsGroup := app.Group("/" + domain.TypeTNMTicket)
		tnmsGroup.Use(AuthZ)
		tnmsGroup.Middleware.Skip(AuthZ, ticketsBulkRemind, ticketsBulkApprove, ticketsBulkMarkPaid)
		tnmsGroup.GET("/", ticketsList)
		tnmsGroup.POST("/", ticketsCreate)
		tnmsGroup.POST("/bulk-remind", ticketsBulkRemind)
		tnmsGroup.POST("/bulk-approve", ticketsBulkApprove)
		tnmsGroup.POST("/bulk-mark-paid", ticketsBulkMarkPaid)
		tnmsGroup.GET("/{id}", ticketsView)
		tnmsGroup.PUT("/{id}", ticketsUpdate)
		tnmsGroup.GET("/{id}/"+api.ResourcePDF, ticketsPDF)
		tnmsGroup.GET("/{id}/"+api.ResourceEmails, ticketsEmails)
		tnmsGroup.POST("/{id}/"+api.ResourceSubmit, ticketsSubmit)
		tnmsGroup.POST("/{id}/"+api.ResourceReady, ticketsReady)
		tnmsGroup.POST("/{id}/"+api.ResourceSend, ticketsSend)
		tnmsGroup.POST("/{id}/"+api.ResourceRemind, ticketsRemind)
		tnmsGroup.POST("/{id}/"+api.ResourceApprove, ticketsApprove)
		tnmsGroup.POST("/{id}/"+api.ResourceDeny, ticketsDeny)
		tnmsGroup.POST("/{id}/"+api.ResourceUndo, ticketsUndo)
		tnmsGroup.POST("/{id}/"+api.ResourceMarkPaid, ticketsMarkPaid)
		tnmsGroup.POST("/{id}/"+api.ResourceCancel, ticketsCancel)

		itemsGroup := tnmsGroup.Group("/{id}/" + api.ResourceItems)
		itemsGroup.POST("/labor", laborItemsCreate)
		itemsGroup.PUT("/labor/{item_id}", laborItemsUpdate)
		itemsGroup.DELETE("/labor/{item_id}", laborItemsDelete)
		itemsGroup.POST("/material", materialItemsCreate)
		itemsGroup.PUT("/material/{item_id}", materialItemsUpdate)
		itemsGroup.DELETE("/material/{item_id}", materialItemsDelete)
		itemsGroup.POST("/equipment", equipmentItemsCreate)
		itemsGroup.PUT("/equipment/{item_id}", equipmentItemsUpdate)
		itemsGroup.DELETE("/equipment/{item_id}", equipmentItemsDelete)
		itemsGroup.POST("/subcontractor", subcontractorItemsCreate)
		itemsGroup.PUT("/subcontractor/{item_id}", subcontractorItemsUpdate)
		itemsGroup.DELETE("/subcontractor/{item_id}", subcontractorItemsDelete)

		// assets
		assetsGroup := app.Group("/" + domain.TypeAsset)
		assetsGroup.Use(AuthZ)
		assetsGroup.POST("/", assetsCreate)
		assetsGroup.GET("/{id}", assetsView)

		// routes with their own access rules, no AuthZ path parsing
		app.GET("/settings", settingsView)
		app.PUT("/settings", settingsUpdate)
		app.GET("/dashboard", dashboardView)
		app.GET("/navigation", navigationList)
		app.GET("/audits/{entityType}/{id}", auditsList)

		job.Init(&app.Worker)
		listeners.RegisterListeners()
	}

	return app
}
