package ddbrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/logger"
)

// contestRow is the whole contest document, leaderboard included.
type contestRow struct {
	Uuid         string       `dynamo:"uuid,hash"`
	Slug         string       `dynamo:"slug"`
	Title        string       `dynamo:"title"`
	Description  string       `dynamo:"description"`
	StartTime    string       `dynamo:"start_time"`
	EndTime      string       `dynamo:"end_time"`
	Problems     []problemRow `dynamo:"problems"`
	CreatedBy    string       `dynamo:"created_by"`
	Participants []string     `dynamo:"participants"`
	Leaderboard  []entryRow   `dynamo:"leaderboard"`
	Status       string       `dynamo:"status"`
	Version      int64        `dynamo:"version"` // For optimistic locking
	CreatedAt    string       `dynamo:"created_at"`
}

type problemRow struct {
	ProblemID string `dynamo:"problem_id"`
	Points    int    `dynamo:"points"`
}

type entryRow struct {
	UserUuid      string            `dynamo:"user_uuid"`
	Username      string            `dynamo:"username,omitempty"`
	TotalScore    int               `dynamo:"total_score"`
	ProblemScores []problemScoreRow `dynamo:"problem_scores"`
	Submissions   []string          `dynamo:"submissions"`
	Rank          int               `dynamo:"rank"`
}

type problemScoreRow struct {
	ProblemID string `dynamo:"problem_id"`
	Score     int    `dynamo:"score"`
}

type DynamoDbContestTable struct {
	table dynamo.Table
}

func NewDynamoDbContestTable(ddbClient *dynamodb.Client, tableName string) *DynamoDbContestTable {
	db := dynamo.NewFromIface(ddbClient)
	return &DynamoDbContestTable{table: db.Table(tableName)}
}

func (ddb *DynamoDbContestTable) GetContest(ctx context.Context, id uuid.UUID) (domain.Contest, error) {
	var row contestRow
	err := ddb.table.Get("uuid", id.String()).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return domain.Contest{}, domain.ErrContestNotFound
	}
	if err != nil {
		return domain.Contest{}, fmt.Errorf("failed to get contest %s: %w", id, err)
	}
	return fromContestRow(row)
}

func (ddb *DynamoDbContestTable) ListContests(ctx context.Context) ([]domain.Contest, error) {
	var rows []contestRow
	if err := ddb.table.Scan().All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to scan contests: %w", err)
	}
	res := make([]domain.Contest, 0, len(rows))
	for _, row := range rows {
		c, err := fromContestRow(row)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func (ddb *DynamoDbContestTable) SaveContest(ctx context.Context, c *domain.Contest) error {
	row := toContestRow(c)
	row.Version = c.Version + 1

	put := ddb.table.Put(row)
	if c.Version == 0 {
		put = put.If("attribute_not_exists(uuid)")
	} else {
		put = put.If("version = ?", c.Version)
	}

	logger.FromContext(ctx).Debug("putting contest", "contest_uuid", c.UUID, "version", row.Version)
	err := put.Run(ctx)
	if isCondCheckFailed(err) {
		return domain.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to put contest %s: %w", c.UUID, err)
	}
	c.Version = row.Version
	return nil
}

func (ddb *DynamoDbContestTable) DeleteContest(ctx context.Context, id uuid.UUID) error {
	err := ddb.table.Delete("uuid", id.String()).If("attribute_exists(uuid)").Run(ctx)
	if isCondCheckFailed(err) {
		return domain.ErrContestNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete contest %s: %w", id, err)
	}
	return nil
}

func isCondCheckFailed(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

func toContestRow(c *domain.Contest) contestRow {
	row := contestRow{
		Uuid:        c.UUID.String(),
		Slug:        c.Slug,
		Title:       c.Title,
		Description: c.Description,
		StartTime:   c.StartTime.UTC().Format(time.RFC3339Nano),
		EndTime:     c.EndTime.UTC().Format(time.RFC3339Nano),
		CreatedBy:   c.CreatedBy.String(),
		Status:      string(c.Status),
		Version:     c.Version,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, p := range c.Problems {
		row.Problems = append(row.Problems, problemRow{ProblemID: p.ProblemID, Points: p.Points})
	}
	for _, u := range c.Participants {
		row.Participants = append(row.Participants, u.String())
	}
	for _, e := range c.Leaderboard {
		er := entryRow{
			UserUuid:   e.UserUUID.String(),
			Username:   e.Username,
			TotalScore: e.TotalScore,
			Rank:       e.Rank,
		}
		for _, ps := range e.ProblemScores {
			er.ProblemScores = append(er.ProblemScores, problemScoreRow{ProblemID: ps.ProblemID, Score: ps.Score})
		}
		for _, s := range e.Submissions {
			er.Submissions = append(er.Submissions, s.String())
		}
		row.Leaderboard = append(row.Leaderboard, er)
	}
	return row
}

func fromContestRow(row contestRow) (domain.Contest, error) {
	var err error
	c := domain.Contest{
		Slug:        row.Slug,
		Title:       row.Title,
		Description: row.Description,
		Status:      domain.Phase(row.Status),
		Version:     row.Version,
	}
	if c.UUID, err = uuid.Parse(row.Uuid); err != nil {
		return domain.Contest{}, fmt.Errorf("bad contest uuid %q: %w", row.Uuid, err)
	}
	if c.CreatedBy, err = uuid.Parse(row.CreatedBy); err != nil {
		return domain.Contest{}, fmt.Errorf("bad created_by of contest %s: %w", row.Uuid, err)
	}
	if c.StartTime, err = time.Parse(time.RFC3339Nano, row.StartTime); err != nil {
		return domain.Contest{}, fmt.Errorf("bad start_time of contest %s: %w", row.Uuid, err)
	}
	if c.EndTime, err = time.Parse(time.RFC3339Nano, row.EndTime); err != nil {
		return domain.Contest{}, fmt.Errorf("bad end_time of contest %s: %w", row.Uuid, err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, row.CreatedAt); err != nil {
		return domain.Contest{}, fmt.Errorf("bad created_at of contest %s: %w", row.Uuid, err)
	}

	for _, p := range row.Problems {
		c.Problems = append(c.Problems, domain.ContestProblem{ProblemID: p.ProblemID, Points: p.Points})
	}
	for _, s := range row.Participants {
		u, err := uuid.Parse(s)
		if err != nil {
			return domain.Contest{}, fmt.Errorf("bad participant of contest %s: %w", row.Uuid, err)
		}
		c.Participants = append(c.Participants, u)
	}
	for _, er := range row.Leaderboard {
		e := domain.LeaderboardEntry{Username: er.Username, TotalScore: er.TotalScore, Rank: er.Rank}
		if e.UserUUID, err = uuid.Parse(er.UserUuid); err != nil {
			return domain.Contest{}, fmt.Errorf("bad leaderboard user of contest %s: %w", row.Uuid, err)
		}
		for _, ps := range er.ProblemScores {
			e.ProblemScores = append(e.ProblemScores, domain.ProblemScore{ProblemID: ps.ProblemID, Score: ps.Score})
		}
		for _, s := range er.Submissions {
			u, err := uuid.Parse(s)
			if err != nil {
				return domain.Contest{}, fmt.Errorf("bad submission id in contest %s: %w", row.Uuid, err)
			}
			e.Submissions = append(e.Submissions, u)
		}
		c.Leaderboard = append(c.Leaderboard, e)
	}
	return c, nil
}
