package main

import "github.com/gin-gonic/gin"

func SetupRoutes(r *gin.Engine, h *Handler) {
	// Public Routes
	r.POST("/login", h.Login)

	public := r.Group("/")
	public.Use(OptionalAuth(h.jwtSecret))
	{
		public.GET("/events", h.ListEvents)
		public.GET("/events/:id", h.GetEvent)
		public.GET("/events/:id/attendees", h.GetEventAttendees)
		public.GET("/events/:id/calendar.ics", h.EventCalendar)
		public.GET("/events/:id/qrcode.png", h.EventQRCode)
	}

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(AuthMiddleware(h.jwtSecret))
	{
		// EVENTS
		authorized.POST("/events", h.CreateEvent)
		authorized.GET("/events/summary", h.EventSummary)
		authorized.PUT("/events/:id", h.UpdateEvent)
		authorized.DELETE("/events/:id", h.DeleteEvent)

		// ATTENDANCE
		authorized.POST("/events/:id/respond", h.SetAttendance)
	}
}
