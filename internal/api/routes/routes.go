// server/internal/api/routes/routes.go
package routes

import (
	"time"

	"garage-ops-api-server/internal/api/handlers"
	"garage-ops-api-server/internal/api/middleware"
	"garage-ops-api-server/internal/auth"
	"garage-ops-api-server/internal/invoice"
	"garage-ops-api-server/internal/registration"
	"garage-ops-api-server/internal/s3"
	"garage-ops-api-server/internal/socket"
	"garage-ops-api-server/internal/workorder"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires stores, engines and handlers onto the gin router. Every
// route except login, the permission catalog source and the websocket
// upgrade sits behind the auth middleware plus one permission gate.
func SetupRouter(db *mongo.Database, authService *auth.Service, uploader *s3.Uploader, hub *socket.Hub, notificationTTL, conversationTTL time.Duration) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	woStore := workorder.NewMongoStore(db)
	woEngine := workorder.NewEngine(woStore, woStore.RateForTechnician)
	invStore := invoice.NewMongoStore(db)
	invEngine := invoice.NewEngine(invStore)
	regWorkflow := registration.NewWorkflow(registration.NewMongoStore(db))
	notifier := handlers.NewNotifier(db, hub, notificationTTL)

	userHandler := &handlers.UserHandler{DB: db, Auth: authService}
	customerHandler := &handlers.CustomerHandler{DB: db}
	variationHandler := &handlers.VariationHandler{DB: db}
	registrationHandler := &handlers.RegistrationHandler{Workflow: regWorkflow, Notifier: notifier}
	workOrderHandler := &handlers.WorkOrderHandler{DB: db, Engine: woEngine, Store: woStore, Notifier: notifier}
	invoiceHandler := &handlers.InvoiceHandler{DB: db, Engine: invEngine, Store: invStore, Notifier: notifier}
	caseHandler := &handlers.CaseHandler{DB: db}
	expenseHandler := &handlers.ExpenseHandler{DB: db}
	payrollHandler := &handlers.PayrollHandler{DB: db, Notifier: notifier}
	messageHandler := &handlers.MessageHandler{DB: db, Hub: hub, ConversationTTL: conversationTTL}
	notificationHandler := &handlers.NotificationHandler{DB: db}
	uploadHandler := &handlers.UploadHandler{Uploader: uploader}
	wsHandler := &handlers.WebSocketHandler{Hub: hub, Auth: authService}

	router.POST("/api/v1/auth/login", userHandler.Login)
	// Token arrives as a query parameter on the upgrade request.
	router.GET("/ws", wsHandler.Serve)

	api := router.Group("/api/v1")
	api.Use(middleware.Authenticate(authService))
	{
		api.GET("/permissions", userHandler.PermissionCatalog)

		users := api.Group("/users", middleware.RequirePermission("users:admin"))
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.PATCH("/:id", userHandler.UpdateUser)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", middleware.RequirePermission("customers:read"), customerHandler.ListCustomers)
			customers.GET("/:id", middleware.RequirePermission("customers:read"), customerHandler.GetCustomer)
			customers.PATCH("/:id", middleware.RequirePermission("customers:write"), customerHandler.UpdateCustomer)
			customers.POST("/:id/vehicles", middleware.RequirePermission("customers:write"), customerHandler.AddVehicle)
			customers.DELETE("/:id", middleware.RequirePermission("customers:write"), customerHandler.DisableCustomer)
		}

		variations := api.Group("/variations")
		{
			variations.GET("", middleware.RequirePermission("variations:read"), variationHandler.ListVariations)
			variations.GET("/:key", middleware.RequirePermission("variations:read"), variationHandler.GetVariation)
			variations.POST("", middleware.RequirePermission("variations:write"), variationHandler.CreateVariation)
			variations.POST("/:key/versions", middleware.RequirePermission("variations:write"), variationHandler.ReviseVariation)
		}

		registrationGroup := api.Group("/registration", middleware.RequirePermission("registration:create"))
		{
			registrationGroup.POST("/customers", registrationHandler.RegisterCustomer)
			registrationGroup.POST("/quotations", registrationHandler.CreateQuotation)
		}
		quotations := api.Group("/quotations", middleware.RequirePermission("quotations:approve"))
		{
			quotations.POST("/:id/approve", registrationHandler.ApproveQuotation)
			quotations.POST("/:id/decline", registrationHandler.DeclineQuotation)
		}

		workorders := api.Group("/workorders")
		{
			workorders.GET("", middleware.RequirePermission("workorders:read"), workOrderHandler.ListWorkOrders)
			workorders.GET("/:id", middleware.RequirePermission("workorders:read"), workOrderHandler.GetWorkOrder)
			workorders.GET("/:id/logs", middleware.RequirePermission("workorders:read"), workOrderHandler.GetStageLogs)
			workorders.POST("/:id/assign", middleware.RequirePermission("workorders:assign"), workOrderHandler.AssignTechnician)
			workorders.POST("/:id/start", middleware.RequirePermission("workorders:work"), workOrderHandler.StartStage)
			workorders.POST("/:id/complete", middleware.RequirePermission("workorders:work"), workOrderHandler.CompleteStage)
			workorders.POST("/:id/report-error", middleware.RequirePermission("workorders:work"), workOrderHandler.ReportError)
			workorders.POST("/:id/resolve-error", middleware.RequirePermission("workorders:work"), workOrderHandler.ResolveError)
			workorders.POST("/:id/mark-ready", middleware.RequirePermission("workorders:work"), workOrderHandler.MarkStageReady)
			workorders.POST("/:id/submit-qa", middleware.RequirePermission("workorders:work"), workOrderHandler.SubmitForQA)
			workorders.POST("/:id/cancel", middleware.RequirePermission("workorders:cancel"), workOrderHandler.CancelWorkOrder)
		}

		qa := api.Group("/qa", middleware.RequirePermission("qa:review"))
		{
			qa.GET("/pending", workOrderHandler.ListPendingQA)
			qa.POST("/:id/approve", workOrderHandler.ApproveQA)
			qa.POST("/:id/reject", workOrderHandler.RejectQA)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", middleware.RequirePermission("invoices:generate"), invoiceHandler.GenerateInvoice)
			invoices.GET("", middleware.RequirePermission("invoices:read"), invoiceHandler.ListInvoices)
			invoices.GET("/:id", middleware.RequirePermission("invoices:read"), invoiceHandler.GetInvoice)
			invoices.GET("/:id/pdf", middleware.RequirePermission("invoices:read"), invoiceHandler.DownloadInvoicePDF)
			invoices.POST("/:id/payments", middleware.RequirePermission("invoices:record-payment"), invoiceHandler.RecordPayment)
		}

		cases := api.Group("/cases")
		{
			cases.POST("", middleware.RequirePermission("cases:write"), caseHandler.CreateCase)
			cases.GET("", middleware.RequirePermission("cases:read"), caseHandler.ListCases)
			cases.GET("/:id", middleware.RequirePermission("cases:read"), caseHandler.GetCase)
			cases.PATCH("/:id", middleware.RequirePermission("cases:write"), caseHandler.UpdateCase)
			cases.POST("/:id/comments", middleware.RequirePermission("cases:write"), caseHandler.AddComment)
		}

		expenses := api.Group("/expenses")
		{
			expenses.POST("", middleware.RequirePermission("expenses:write"), expenseHandler.CreateExpense)
			expenses.GET("", middleware.RequirePermission("expenses:read"), expenseHandler.ListExpenses)
			expenses.GET("/:id", middleware.RequirePermission("expenses:read"), expenseHandler.GetExpense)
			expenses.PATCH("/:id", middleware.RequirePermission("expenses:write"), expenseHandler.UpdateExpense)
		}

		payroll := api.Group("/payroll")
		{
			payroll.POST("/stubs", middleware.RequirePermission("payroll:write"), payrollHandler.ComputeStub)
			payroll.GET("/stubs", middleware.RequirePermission("payroll:read"), payrollHandler.ListStubs)
			payroll.GET("/stubs/:id", middleware.RequirePermission("payroll:read"), payrollHandler.GetStub)
			payroll.POST("/stubs/:id/issue", middleware.RequirePermission("payroll:write"), payrollHandler.IssueStub)
		}

		messages := api.Group("", middleware.RequirePermission("messages:use"))
		{
			messages.POST("/conversations", messageHandler.CreateConversation)
			messages.GET("/conversations", messageHandler.ListConversations)
			messages.GET("/conversations/:id/messages", messageHandler.ListMessages)
			messages.POST("/conversations/:id/messages", messageHandler.SendMessage)
		}

		notifications := api.Group("/notifications", middleware.RequirePermission("notifications:read"))
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		api.POST("/uploads", uploadHandler.Upload)
	}

	return router
}
