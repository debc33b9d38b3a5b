package routes

import (
	"net/http"

	"notes-app/src/interface/handler"
	"notes-app/src/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all API routes
func SetupRoutes(r *gin.Engine, noteHandler *handler.NoteHandler) {
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	// サポート外メソッドは 405 を返す
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.ErrorResponseDTO{
			Status:  "error",
			Message: "Method not allowed. Please use GET, POST, PUT or DELETE.",
		})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponseDTO{
			Status:  "error",
			Message: "Route not found",
		})
	})

	notes := r.Group("/notes")
	{
		notes.POST("", noteHandler.CreateNote)       // POST /notes
		notes.GET("", noteHandler.ListNotes)         // GET /notes
		notes.PUT("/:id", noteHandler.UpdateNote)    // PUT /notes/:id
		notes.POST("/:id", noteHandler.UpdateNote)   // POST /notes/:id（PUT を発行できないクライアント向け）
		notes.DELETE("/:id", noteHandler.DeleteNote) // DELETE /notes/:id
		// DELETE を発行できないクライアント向けの別名
		notes.POST("/:id/delete", noteHandler.DeleteNote)
	}
}
