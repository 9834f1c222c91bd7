package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type problemScore struct {
	ProblemID string `json:"problem_id"`
	Score     int    `json:"score"`
}

type leaderboardEntry struct {
	Rank          int            `json:"rank"`
	UserUUID      string         `json:"user_uuid"`
	Username      string         `json:"username"`
	TotalScore    int            `json:"total_score"`
	ProblemScores []problemScore `json:"problem_scores"`
}

type leaderboardClient struct {
	http      *http.Client
	baseURL   string
	contestID string
	limit     int
}

func (c *leaderboardClient) fetch(ctx context.Context) ([]leaderboardEntry, error) {
	u, err := url.JoinPath(c.baseURL, "contests", c.contestID, "leaderboard")
	if err != nil {
		return nil, err
	}
	if c.limit > 0 {
		u += "?limit=" + strconv.Itoa(c.limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body struct {
		Status  string             `json:"status"`
		Data    []leaderboardEntry `json:"data"`
		Code    string             `json:"code"`
		Message string             `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("%s: %s", body.Code, body.Message)
	}
	return body.Data, nil
}
