package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/studbuds/internal/app/controllers"
	"github.com/yigit/studbuds/internal/middleware"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Health       *controllers.HealthController
	User         *controllers.UserController
	Class        *controllers.ClassController
	Post         *controllers.PostController
	Note         *controllers.NoteController
	StudySession *controllers.StudySessionController
	StudyGroup   *controllers.StudyGroupController
	Message      *controllers.MessageController
}

// SetupRouter configures all application routes. Files under uploadDir are served at /uploads.
func SetupRouter(router *gin.Engine, ctrl *Controllers, authMiddleware *middleware.AuthMiddleware, uploadDir string) {
	router.Static("/uploads", uploadDir)

	api := router.Group("/api")
	api.GET("/health", ctrl.Health.Health)

	// --- Public routes ---
	api.POST("/users/register", ctrl.User.Register)
	api.POST("/users/login", ctrl.User.Login)

	// Websocket handshakes may carry the token in the query string
	ws := api.Group("")
	ws.Use(authMiddleware.WebsocketAuth())
	{
		ws.GET("/classes/:id/ws", ctrl.Class.Websocket)
		ws.GET("/messages/ws", ctrl.Message.Websocket)
	}

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	users := authenticated.Group("/users")
	{
		users.GET("/me", ctrl.User.GetMe)
		users.PUT("/update", ctrl.User.UpdateProfile)
		users.GET("/search", ctrl.User.Search)
		users.GET("/friends", ctrl.User.ListFriends)
		users.POST("/add-friend/:id", ctrl.User.AddFriend)
		users.DELETE("/remove-friend/:id", ctrl.User.RemoveFriend)
		users.POST("/enroll/:id", ctrl.User.EnrollClass)
		users.GET("/:id", ctrl.User.GetUser)
	}

	classes := authenticated.Group("/classes")
	{
		classes.GET("", ctrl.Class.ListClasses)
		classes.POST("", ctrl.Class.CreateClass)
		classes.GET("/code/:code", ctrl.Class.GetClassByCode)
		classes.GET("/:id", ctrl.Class.GetClass)
		classes.POST("/:id/join", ctrl.Class.JoinClass)
		classes.POST("/:id/leave", ctrl.Class.LeaveClass)
		classes.GET("/:id/members", ctrl.Class.ListMembers)

		classes.GET("/:id/posts", ctrl.Post.ListPosts)
		classes.POST("/:id/posts", ctrl.Post.CreatePost)

		classes.GET("/:id/notes", ctrl.Note.ListNotes)
		classes.POST("/:id/notes", ctrl.Note.UploadNote)

		classes.GET("/:id/study-sessions", ctrl.StudySession.ListStudySessions)
		classes.POST("/:id/study-sessions", ctrl.StudySession.CreateStudySession)
		classes.GET("/:id/study-sessions/stats", ctrl.StudySession.GetStats)

		classes.GET("/:id/study-groups", ctrl.StudyGroup.ListStudyGroups)
		classes.POST("/:id/study-groups", ctrl.StudyGroup.CreateStudyGroup)
	}

	posts := authenticated.Group("/posts")
	{
		posts.GET("/:postId", ctrl.Post.GetPost)
		posts.PUT("/:postId", ctrl.Post.EditPost)
		posts.DELETE("/:postId", ctrl.Post.DeletePost)
	}

	notes := authenticated.Group("/notes")
	{
		notes.GET("/:noteId", ctrl.Note.GetNote)
		notes.DELETE("/:noteId", ctrl.Note.DeleteNote)
		notes.POST("/:noteId/like", ctrl.Note.LikeNote)
		notes.POST("/:noteId/download", ctrl.Note.TrackDownload)
	}

	sessions := authenticated.Group("/study-sessions")
	{
		sessions.POST("/:id/like", ctrl.StudySession.LikeStudySession)
		sessions.POST("/:id/comments", ctrl.StudySession.AddComment)
		sessions.DELETE("/:id", ctrl.StudySession.DeleteStudySession)
	}

	groups := authenticated.Group("/study-groups")
	{
		groups.GET("/:id", ctrl.StudyGroup.GetStudyGroup)
		groups.POST("/:id/join", ctrl.StudyGroup.JoinStudyGroup)
		groups.POST("/:id/leave", ctrl.StudyGroup.LeaveStudyGroup)
	}

	messages := authenticated.Group("/messages")
	{
		messages.POST("", ctrl.Message.SendMessage)
		messages.GET("/conversations", ctrl.Message.GetConversations)
		messages.GET("/unread-count", ctrl.Message.UnreadCount)
		messages.GET("/:id", ctrl.Message.GetMessages)
		messages.PUT("/:id/read", ctrl.Message.MarkRead)
		messages.DELETE("/:id", ctrl.Message.DeleteMessage)
	}
}
