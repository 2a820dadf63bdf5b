package server

import (
	"financehub/auth"
	"financehub/cache"
	"financehub/confs"
	httpHandler "financehub/handlers/http"
	"financehub/repositories"
	"financehub/usecases"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app *gin.Engine
	cfg confs.ServerConfig
}

// NewServer builds the engine and registers every route.
func NewServer(cfg confs.ServerConfig, repos repositories.Repositories, sessions cache.SessionStore) *Server {
	app := gin.New()
	app.Use(gin.Recovery(), httpHandler.RequestLogger())

	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "apikey"}
	app.Use(cors.New(config))

	s := &Server{app: app, cfg: cfg}
	s.routes(repos, sessions)
	return s
}

func (s *Server) routes(repos repositories.Repositories, sessions cache.SessionStore) {
	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	// Initialize use cases
	tokens := auth.NewTokens(s.cfg.JWTSecret, s.cfg.TokenTTL)
	authUseCase := usecases.NewAuthUseCase(repos.Users, tokens, sessions)
	postsUseCase := usecases.NewPostsUseCase(repos.Posts)
	pollsUseCase := usecases.NewPollsUseCase(repos.Polls)

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(authUseCase)
	postHandler := httpHandler.NewPostHandler(postsUseCase)
	pollHandler := httpHandler.NewPollHandler(pollsUseCase)

	requireSession := httpHandler.RequireSession(authUseCase)

	authAPI := s.app.Group("/auth/v1", httpHandler.RequireAPIKey(s.cfg.AnonKey))
	{
		authAPI.POST("/signup", authHandler.Signup)
		authAPI.POST("/token", authHandler.Token)
		authAPI.POST("/logout", requireSession, authHandler.Logout)
		authAPI.GET("/user", requireSession, authHandler.User)
	}

	rest := s.app.Group("/rest/v1", httpHandler.RequireAPIKey(s.cfg.AnonKey))
	{
		users := rest.Group("/users")
		{
			users.GET("/:id", authHandler.GetProfile)
			users.PATCH("/:id", requireSession, authHandler.UpdateProfile)
		}

		posts := rest.Group("/posts")
		{
			posts.GET("", postHandler.ListPosts)
			posts.POST("", requireSession, postHandler.CreatePost)
			posts.GET("/:id/comments", postHandler.ListComments)
			posts.POST("/:id/comments", requireSession, postHandler.AddComment)
		}

		polls := rest.Group("/polls")
		{
			polls.GET("", pollHandler.ListPolls)
			polls.POST("", requireSession, pollHandler.CreatePoll)
		}

		// Atomic procedures
		rpc := rest.Group("/rpc", requireSession)
		{
			rpc.POST("/increment_likes", postHandler.IncrementLikes)
			rpc.POST("/vote_poll", pollHandler.VotePoll)
		}
	}
}

// Handler exposes the engine, mainly for httptest.
func (s *Server) Handler() *gin.Engine {
	return s.app
}

func (s *Server) Start() error {
	return s.app.Run(s.cfg.Addr)
}
