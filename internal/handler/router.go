package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted by RegisterRoutes. Files is optional and only set
// when objects are kept on local disk.
type Handlers struct {
	Auth      *AuthHandler
	Schools   *SchoolHandler
	Teachers  *TeacherHandler
	Subjects  *SubjectHandler
	Classes   *ClassHandler
	Syllabus  *SyllabusHandler
	FAQ       *FAQHandler
	Bulletin  *BulletinHandler
	Dashboard *DashboardHandler
	Reports   *ReportHandler
	Files     *FileHandler
}

// RegisterRoutes mounts the API on group. Everything except login and signed file downloads
// sits behind requireAdmin.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, requireAdmin gin.HandlerFunc) {
	group.POST("/auth/login", h.Auth.Login)
	if h.Files != nil {
		group.GET("/files/:token", h.Files.Download)
	}

	admin := group.Group("")
	admin.Use(requireAdmin)

	admin.PUT("/admin/password", h.Auth.ChangePassword)

	schools := admin.Group("/schools")
	schools.GET("", h.Schools.List)
	schools.POST("", h.Schools.Create)
	schools.GET("/options", h.Schools.Options)
	schools.DELETE("/:id", h.Schools.Delete)

	teachers := admin.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.POST("", h.Teachers.Register)
	teachers.DELETE("/:id", h.Teachers.Delete)

	subjects := admin.Group("/subjects")
	subjects.GET("", h.Subjects.List)
	subjects.POST("", h.Subjects.Create)
	subjects.DELETE("/:id", h.Subjects.Delete)

	classes := admin.Group("/classes")
	classes.GET("", h.Classes.List)
	classes.POST("", h.Classes.Create)
	classes.PUT("/:id", h.Classes.Update)
	classes.DELETE("/:id", h.Classes.Delete)

	syllabus := admin.Group("/syllabuses")
	syllabus.GET("", h.Syllabus.ListByClass)
	syllabus.GET("/all", h.Syllabus.ListAll)
	syllabus.POST("", h.Syllabus.Create)
	syllabus.PUT("/:id", h.Syllabus.Update)
	syllabus.DELETE("/:id", h.Syllabus.Delete)

	faqs := admin.Group("/faqs")
	faqs.GET("", h.FAQ.List)
	faqs.POST("", h.FAQ.Create)
	faqs.PUT("/:id", h.FAQ.Answer)
	faqs.DELETE("/:id", h.FAQ.Delete)

	admin.GET("/job-posts", h.Bulletin.JobPosts)
	admin.GET("/notifications", h.Bulletin.Notifications)
	admin.POST("/notifications", h.Bulletin.Notify)

	admin.GET("/dashboard/stats", h.Dashboard.Stats)
	admin.GET("/activity/principals", h.Dashboard.Principals)
	admin.GET("/activity/teachers", h.Dashboard.Teachers)

	reports := admin.Group("/reports/completion")
	reports.GET("/schools", h.Reports.Schools)
	reports.POST("", h.Reports.Completion)
	reports.GET("/:schoolId/export", h.Reports.Export)
}
