package controllers

import (
	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AnalyticsController serves XP rankings.
type AnalyticsController struct {
	Leaderboard services.LeaderboardService
	Log         *zap.SugaredLogger
}

func NewAnalyticsController(lb services.LeaderboardService, log *zap.SugaredLogger) *AnalyticsController {
	return &AnalyticsController{Leaderboard: lb, Log: log}
}

// GetLeaderboard godoc
// @Summary XP leaderboard
// @Tags users
// @Produce json
// @Param limit query int false "Number of entries (default 10, max 100)"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/leaderboard [get]
func (ac *AnalyticsController) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := ac.Leaderboard.Top(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, ac.Log, err)
	}
	return utils.OK(c, entries)
}
