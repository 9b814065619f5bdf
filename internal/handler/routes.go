package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pennyflow/pennyflow-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes. Protected groups authenticate
// first, then rate limit on the resolved account ID.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, categoryHandler *CategoryHandler, budgetHandler *BudgetHandler, expenseHandler *ExpenseHandler, walletHandler *WalletHandler, reportHandler *ReportHandler, websocketHandler *WebSocketHandler) {
	protect := []echo.MiddlewareFunc{
		authMiddleware.Authenticate(),
		middleware.RateLimitMiddleware(rateLimiter),
	}

	// Health check (unauthenticated)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// WebSocket endpoint authenticates via token query param
	e.GET("/ws", websocketHandler.HandleWS)

	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(protect...)
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(protect...)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(protect...)
	budgets.POST("", budgetHandler.UpsertBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(protect...)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.POST("/:id/receipt", expenseHandler.AttachReceipt)
	expenses.GET("/:id/receipt", expenseHandler.GetReceipt)
	expenses.DELETE("/:id/receipt", expenseHandler.DeleteReceipt)

	// Wallet routes (protected)
	wallet := api.Group("/wallet")
	wallet.Use(protect...)
	wallet.GET("", walletHandler.GetWallet)
	wallet.POST("/add-money", walletHandler.AddMoney)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(protect...)
	transactions.GET("", walletHandler.GetTransactions)
	transactions.DELETE("/:id", walletHandler.DeleteTransaction)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(protect...)
	dashboard.GET("/summary", reportHandler.GetDashboardSummary)

	// Analytics routes (protected)
	analytics := api.Group("/analytics")
	analytics.Use(protect...)
	analytics.GET("/monthly", reportHandler.GetMonthlyAnalytics)

	// Report routes (protected)
	reports := api.Group("/reports")
	reports.Use(protect...)
	reports.GET("/monthly", reportHandler.GetMonthlyReports)
	reports.GET("/:year/:month", reportHandler.DownloadMonthlyReport)

	// Insight routes (protected)
	insights := api.Group("/insights")
	insights.Use(protect...)
	insights.GET("/spending", reportHandler.GetSpendingInsights)
}
