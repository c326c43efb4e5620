package router

import (
	"coding-club/internal/cache"
	"coding-club/internal/database"
	"coding-club/internal/handler"
	"coding-club/internal/handler/auth"
	"coding-club/internal/handler/certificates"
	"coding-club/internal/handler/files"
	"coding-club/internal/handler/task"
	"coding-club/internal/handler/users"
	"coding-club/internal/mailer"
	"coding-club/internal/middleware"
	"coding-club/internal/registration"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Deps 為路由需要的外部相依
type Deps struct {
	DB           database.DB
	Cache        cache.Cache
	Mailer       mailer.Mailer
	Directory    registration.Directory
	Grader       task.Reviewer
	Files        files.Service
	Certificates certificates.Issuer
	// 信件中連結的前綴，例如 https://club.example.com
	Domain string
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache), middleware.RequireAuth)

	// 登入、密碼重設與註冊
	apiAuth := api.Group("/auth")
	apiAuth.POST("/login", auth.LoginHandler(d.DB))
	apiAuth.POST("/password/forgot", auth.ForgotPasswordHandler(d.DB, d.Mailer, d.Domain))
	apiAuth.POST("/password/reset", auth.ResetPasswordHandler(d.DB))
	apiAuth.POST("/register/link", auth.RegistrationLinkHandler(d.Directory, d.Cache, d.Mailer, d.Domain))
	apiAuth.POST("/register/confirm", auth.ConfirmRegistrationHandler(d.DB, d.Cache))

	// 取得、更新、刪除當前使用者個人資料
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth)
	apiUsersMe.GET("", users.GetMyUserHandler(d.DB))
	apiUsersMe.PUT("", users.UpdateMyUserHandler(d.DB))
	apiUsersMe.DELETE("", users.DeleteMyUserHandler(d.DB))
	apiUsersMe.PATCH("/password", users.UpdateMyUserPasswordHandler(d.DB))

	// 管理員專屬 Users CRUD
	apiUsers := api.Group("/users", middleware.RequireAdmin)
	apiUsers.POST("", users.CreateUserHandler(d.DB))
	apiUsers.GET("", users.ListUsersHandler(d.DB))
	apiUsers.GET("/export", users.ExportUsersHandler(d.DB))
	apiUsers.GET("/:user_id", users.GetUserHandler(d.DB))
	apiUsers.PUT("/:user_id", users.UpdateUserHandler(d.DB))
	apiUsers.DELETE("/:user_id", users.DeleteUserHandler(d.DB))
	apiUsers.GET("/:user_id/submissions", users.ListSubmissionsHandler(d.DB))

	api.POST("/task/review", task.ReviewHandler(d.Grader), middleware.RequireAuth)

	apiFiles := api.Group("/files", middleware.RequireAuth)
	apiFiles.POST("/upload", files.UploadHandler(d.Files))
	apiFiles.GET("/pages", files.PagesHandler(d.Files))

	api.POST("/certificates", certificates.IssueHandler(d.Certificates), middleware.RequireAdmin)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
