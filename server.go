package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/middlewares"
	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/mmdatafocus/menucost_backend/models/reports"
	"github.com/mmdatafocus/menucost_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = "8080"

var tracer trace.Tracer = otel.Tracer("menucost-backend")

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// respondError maps model-layer error kinds to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorStaleWrite), errors.Is(err, utils.ErrorDuplicateIngredient):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorInfrastructure):
		// Degraded dependency: callers should retry, not fix their input.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryString(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func queryInt(c *gin.Context, key string) *int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

type signInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func signInHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		token, user, err := models.SignIn(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func signUpHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBusiness
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		business, err := models.CreateBusiness(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, business)
	}
}

func createIngredientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewIngredient
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		ingredient, err := models.CreateIngredient(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ingredient)
	}
}

func updateIngredientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewIngredient
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		ingredient, err := models.UpdateIngredient(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	}
}

func deleteIngredientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		ingredient, err := models.DeleteIngredient(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	}
}

func getIngredientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		ingredient, err := models.GetIngredient(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	}
}

func listIngredientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("after") != "" || c.Query("limit") != "" {
			connection, err := models.PaginateIngredients(c.Request.Context(),
				queryInt(c, "limit"), queryString(c, "after"), queryString(c, "name"))
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, connection)
			return
		}
		ingredients, err := models.GetIngredients(c.Request.Context(), queryString(c, "name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredients)
	}
}

type toggleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func toggleIngredientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req toggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		ingredient, err := models.ToggleActiveIngredient(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	}
}

func suggestPricingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeUnit := c.Query("recipe_unit")
		if recipeUnit == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipe_unit is required"})
			return
		}
		c.JSON(http.StatusOK, models.SuggestPricing(recipeUnit, queryString(c, "pricing_unit")))
	}
}

func createCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCategory
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		category, err := models.CreateCategory(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func updateCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewCategory
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		category, err := models.UpdateCategory(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func deleteCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		category, err := models.DeleteCategory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func listCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := models.GetCategories(c.Request.Context(), queryString(c, "name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func createSubcategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSubcategory
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		subcategory, err := models.CreateSubcategory(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, subcategory)
	}
}

func updateSubcategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewSubcategory
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		subcategory, err := models.UpdateSubcategory(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, subcategory)
	}
}

func deleteSubcategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		subcategory, err := models.DeleteSubcategory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, subcategory)
	}
}

func listSubcategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		subcategories, err := models.GetSubcategories(c.Request.Context(), queryInt(c, "category_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, subcategories)
	}
}

func ensureDefaultTaxonomyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		taxonomy, err := models.EnsureDefaultTaxonomy(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, taxonomy)
	}
}

func createMenuHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewMenu
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		menu, err := models.CreateMenu(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, menu)
	}
}

func updateMenuHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewMenu
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		menu, err := models.UpdateMenu(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menu)
	}
}

func deleteMenuHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		menu, err := models.DeleteMenu(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menu)
	}
}

func getMenuHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		menu, err := models.GetMenuWithLines(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menu)
	}
}

func listMenusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("after") != "" || c.Query("limit") != "" {
			connection, err := models.PaginateMenus(c.Request.Context(),
				queryInt(c, "limit"), queryString(c, "after"),
				queryString(c, "name"), queryInt(c, "subcategory_id"))
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, connection)
			return
		}
		menus, err := models.GetMenus(c.Request.Context(), queryString(c, "name"), queryInt(c, "subcategory_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menus)
	}
}

func menuPricingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		summary, err := models.GetMenuPricingSummary(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func recalculateMenuHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		menu, err := models.RecalculateMenuCost(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menu)
	}
}

func createShopHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewShop
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		shop, err := models.CreateShop(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, shop)
	}
}

func updateShopHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewShop
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		shop, err := models.UpdateShop(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, shop)
	}
}

func deleteShopHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		shop, err := models.DeleteShop(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, shop)
	}
}

func listShopsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		shops, err := models.GetShops(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, shops)
	}
}

func menuCostReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "menuCostReport")
		defer span.End()
		records, err := reports.GetMenuCostReport(ctx, queryInt(c, "shop_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func menuCostExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "menuCostExport")
		defer span.End()
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=menu-cost-report.xlsx")
		if err := reports.WriteMenuCostExcel(ctx, queryInt(c, "shop_id"), c.Writer); err != nil {
			config.LogError(config.GetLogger(), "server.go", "menuCostExportHandler", "WriteMenuCostExcel", nil, err)
			c.Status(http.StatusInternalServerError)
		}
	}
}

func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		for _, ginErr := range c.Errors {
			cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"path":           c.Request.URL.Path,
				"correlation_id": cid,
			}).Error(ginErr.Error())
		}
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until DB is ready, app endpoints return 503.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization", "x-shop-id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.AuthMiddleware())
	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/auth/signin", signInHandler())
	r.POST("/auth/signup", signUpHandler())

	api := r.Group("/api", middlewares.RequireSession())
	{
		api.POST("/ingredients", createIngredientHandler())
		api.GET("/ingredients", listIngredientsHandler())
		api.GET("/ingredients/:id", getIngredientHandler())
		api.PUT("/ingredients/:id", updateIngredientHandler())
		api.DELETE("/ingredients/:id", deleteIngredientHandler())
		api.POST("/ingredients/:id/toggle-active", toggleIngredientHandler())
		api.GET("/pricing/suggest", suggestPricingHandler())

		api.POST("/categories", createCategoryHandler())
		api.GET("/categories", listCategoriesHandler())
		api.PUT("/categories/:id", updateCategoryHandler())
		api.DELETE("/categories/:id", deleteCategoryHandler())

		api.POST("/subcategories", createSubcategoryHandler())
		api.GET("/subcategories", listSubcategoriesHandler())
		api.PUT("/subcategories/:id", updateSubcategoryHandler())
		api.DELETE("/subcategories/:id", deleteSubcategoryHandler())
		api.POST("/taxonomy/default", ensureDefaultTaxonomyHandler())

		api.POST("/menus", createMenuHandler())
		api.GET("/menus", listMenusHandler())
		api.GET("/menus/:id", getMenuHandler())
		api.PUT("/menus/:id", updateMenuHandler())
		api.DELETE("/menus/:id", deleteMenuHandler())
		api.GET("/menus/:id/pricing", menuPricingHandler())
		api.POST("/menus/:id/recalculate", recalculateMenuHandler())

		api.POST("/shops", createShopHandler())
		api.GET("/shops", listShopsHandler())
		api.PUT("/shops/:id", updateShopHandler())
		api.DELETE("/shops/:id", deleteShopHandler())

		api.GET("/reports/menu-cost", menuCostReportHandler())
		api.GET("/reports/menu-cost/export", menuCostExportHandler())
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
