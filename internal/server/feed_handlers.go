package server

import (
	"github.com/gofiber/fiber/v2"
)

// FriendsFeed handles GET /api/feed/:userId/friends/:sortMethod
func (s *Server) FriendsFeed(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	posts, err := s.feedService.FriendsFeed(c.UserContext(), userID, c.Params("sortMethod"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CommunityFeed handles GET /api/feed/community/:sortMethod
func (s *Server) CommunityFeed(c *fiber.Ctx) error {
	posts, err := s.feedService.CommunityFeed(c.UserContext(), c.Params("sortMethod"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// HealthyFeed handles GET /api/feed/healthy/:sortMethod
func (s *Server) HealthyFeed(c *fiber.Ctx) error {
	posts, err := s.feedService.HealthyFeed(c.UserContext(), c.Params("sortMethod"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetChallenges handles GET /api/challenges
func (s *Server) GetChallenges(c *fiber.Ctx) error {
	challenges, err := s.leaderboardService.Challenges(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"challenges": challenges})
}

// ChallengeLeaderboard handles GET /api/challenge_leaderboard/:challengeNo/:num
func (s *Server) ChallengeLeaderboard(c *fiber.Ctx) error {
	challengeNo, err := paramInt(c, "challengeNo")
	if err != nil {
		return respondError(c, err)
	}
	num, err := paramInt(c, "num")
	if err != nil {
		return respondError(c, err)
	}

	entries, err := s.leaderboardService.ChallengeLeaderboard(c.UserContext(), challengeNo, num)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}

// HealthLeaderboard handles GET /api/leaderboard/health/:num
func (s *Server) HealthLeaderboard(c *fiber.Ctx) error {
	num, err := paramInt(c, "num")
	if err != nil {
		return respondError(c, err)
	}

	entries, err := s.leaderboardService.HealthLeaderboard(c.UserContext(), num)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}
