package server

import (
	"github.com/gofiber/fiber/v2"

	"platefeed/internal/models"
	"platefeed/internal/service"
)

// UploadPost handles POST /api/posts/upload
func (s *Server) UploadPost(c *fiber.Ctx) error {
	var req service.SubmitPostInput
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.scoringService.SubmitPost(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"postId": post.ID})
}

// UpvotePost handles GET /api/posts/upvote/:postId
func (s *Server) UpvotePost(c *fiber.Ctx) error {
	postID, err := paramUint(c, "postId")
	if err != nil {
		return respondError(c, err)
	}

	upvotes, err := s.scoringService.UpvotePost(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"upvotes": upvotes})
}

// GetPost handles GET /api/posts/:postId
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := paramUint(c, "postId")
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.scoringService.GetPost(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}
