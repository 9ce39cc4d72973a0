package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
)

// Portal bundles the handlers behind the portal routes
type Portal struct {
	Auth      *AuthHandlers
	Dashboard *DashboardHandlers
	Forms     *FormHandlers
	Verify    *VerifyHandlers
	Health    *HealthHandlers
	// LookupLimiter throttles the public lookups; nil disables it
	LookupLimiter middleware.Limiter
}

// Register mounts every portal route on r. The session must already be
// loaded by middleware.SessionLoader. When r is the engine the admin guard
// also covers admin paths that match no route.
func (p *Portal) Register(r gin.IRouter) {
	r.Use(middleware.RequirePrefixSession(AdminPath, SignInPath))

	r.GET("/health", p.Health.Health)

	r.GET("/", p.Auth.Home)
	r.GET(SignInPath, p.Auth.SignInPage)
	r.POST(SignInPath, p.Auth.SignIn)
	r.GET("/signout", p.Auth.SignOut)
	r.POST("/change-password", p.Auth.ChangePassword)

	public := r.Group("")
	if p.LookupLimiter != nil {
		public.Use(middleware.RateLimit(p.LookupLimiter))
	}
	{
		public.GET(VerifyPath, p.Verify.SearchPage)
		public.POST(VerifyPath, p.Verify.Search)
		public.GET(VerifyPath+"/:id", p.Verify.Detail)
		public.GET(VerifyPath+"/:id/download", p.Verify.Download)
		public.GET("/document-verify", p.Verify.DocumentVerify)
	}

	admin := r.Group(AdminPath, middleware.AdminAudit())
	{
		admin.GET("", p.Dashboard.Dashboard)
		admin.GET("/form-data", p.Forms.List)
		admin.POST("/form-data", p.Forms.Create)
		admin.POST("/form-data/delete", p.Forms.Delete)
		admin.GET("/form-data/:id/verification", p.Forms.VerificationPage)
		admin.POST("/form-data/:id/verification", p.Forms.SaveVerification)
	}
}
