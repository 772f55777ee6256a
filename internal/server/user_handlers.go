package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:userId
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	profile, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	users, err := s.userService.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// AddFriend handles GET /api/users/:userId/friends/add/:friendId
func (s *Server) AddFriend(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	friendID, err := paramUint(c, "friendId")
	if err != nil {
		return respondError(c, err)
	}

	if err := s.friendService.AddFriend(c.UserContext(), userID, friendID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
