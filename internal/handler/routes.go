package handler

import "github.com/gin-gonic/gin"

// Routes groups the handlers mounted under the API prefix.
type Routes struct {
	Sessions      *SessionHandler
	Board         *BoardHandler
	Creation      *CreationHandler
	Announcements *AnnouncementHandler
	Images        *ImageHandler
	SessionAuth   gin.HandlerFunc
}

// Register mounts every board endpoint on api.
func (r Routes) Register(api gin.IRouter) {
	api.POST("/sessions", r.Sessions.Create)
	api.GET("/roster", r.Announcements.Roster)
	api.GET("/announcements", r.Announcements.List)
	api.GET("/announcements/:id", r.Announcements.Get)
	api.GET("/announcements/:id/report", r.Announcements.Report)
	api.GET("/images/:name", r.Images.Serve)

	board := api.Group("/board", r.SessionAuth)
	board.GET("", r.Board.Snapshot)
	board.PUT("/announcements/:id/selection", r.Board.SelectEmployee)
	board.POST("/announcements/:id/acknowledge", r.Board.Acknowledge)
	board.POST("/carousel/advance", r.Board.CarouselAdvance)
	board.POST("/carousel/retreat", r.Board.CarouselRetreat)
	board.POST("/carousel/jump", r.Board.CarouselJump)

	dialog := board.Group("/dialog")
	dialog.POST("/open", r.Creation.Open)
	dialog.POST("/password", r.Creation.SubmitPassword)
	dialog.PATCH("/draft", r.Creation.UpdateDraft)
	dialog.POST("/image", r.Creation.UploadImage)
	dialog.DELETE("/image", r.Creation.RemoveImage)
	dialog.POST("/submit", r.Creation.Submit)
	dialog.POST("/cancel", r.Creation.Cancel)
}
