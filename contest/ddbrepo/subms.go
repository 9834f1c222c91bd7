package ddbrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/logger"
)

type DdbSubmClient interface {
	dynamodb.QueryAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// submRow is keyed by contest so that a contest's log is one partition,
// sorted by creation time.
type submRow struct {
	Pk          string `dynamodbav:"pk"` // contest#<contest uuid>
	Sk          string `dynamodbav:"sk"` // <created at>#<subm uuid>
	Uuid        string `dynamodbav:"uuid"`
	ContestUuid string `dynamodbav:"contest_uuid"`
	UserUuid    string `dynamodbav:"user_uuid"`
	ProblemID   string `dynamodbav:"problem_id"`
	Language    string `dynamodbav:"language"`
	Code        string `dynamodbav:"code,omitempty"`
	CodeKey     string `dynamodbav:"code_key,omitempty"`
	Verdict     string `dynamodbav:"verdict"`
	Score       int    `dynamodbav:"score"`
	IsInContest bool   `dynamodbav:"is_in_contest"`
	CreatedAt   string `dynamodbav:"created_at"`
}

type DynamoDbSubmTable struct {
	client    DdbSubmClient
	tableName string
}

func NewDynamoDbSubmTable(client DdbSubmClient, tableName string) *DynamoDbSubmTable {
	return &DynamoDbSubmTable{client: client, tableName: tableName}
}

func contestPk(contestUUID uuid.UUID) string {
	return fmt.Sprintf("contest#%s", contestUUID)
}

func (ddb *DynamoDbSubmTable) StoreSubm(ctx context.Context, s domain.Submission) error {
	createdAt := s.CreatedAt.UTC().Format(time.RFC3339Nano)
	row := submRow{
		Pk:          contestPk(s.ContestUUID),
		Sk:          fmt.Sprintf("%s#%s", createdAt, s.UUID),
		Uuid:        s.UUID.String(),
		ContestUuid: s.ContestUUID.String(),
		UserUuid:    s.UserUUID.String(),
		ProblemID:   s.ProblemID,
		Language:    string(s.Language),
		Code:        s.Code,
		CodeKey:     s.CodeKey,
		Verdict:     s.Verdict,
		Score:       s.Score,
		IsInContest: s.IsInContest,
		CreatedAt:   createdAt,
	}
	item, err := attributevalue.MarshalMap(row)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("sk"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	logger.FromContext(ctx).Debug("putting submission", "subm_uuid", s.UUID, "contest_uuid", s.ContestUUID)
	_, err = ddb.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(ddb.tableName),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if isCondCheckFailed(err) {
		return domain.ErrSubmissionExists
	}
	if err != nil {
		return fmt.Errorf("failed to put submission: %w", err)
	}
	return nil
}

func (ddb *DynamoDbSubmTable) ListSubms(ctx context.Context, contestUUID uuid.UUID, userUUID uuid.UUID) ([]domain.Submission, error) {
	keyCond := expression.Key("pk").Equal(expression.Value(contestPk(contestUUID)))
	filter := expression.Name("user_uuid").Equal(expression.Value(userUUID.String()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(ddb.client, &dynamodb.QueryInput{
		TableName:                 aws.String(ddb.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var res []domain.Submission
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query submissions: %w", err)
		}
		var rows []submRow
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &rows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submissions: %w", err)
		}
		for _, row := range rows {
			s, err := fromSubmRow(row)
			if err != nil {
				return nil, err
			}
			res = append(res, s)
		}
	}
	return res, nil
}

func fromSubmRow(row submRow) (domain.Submission, error) {
	var err error
	s := domain.Submission{
		ProblemID:   row.ProblemID,
		Language:    domain.Language(row.Language),
		Code:        row.Code,
		CodeKey:     row.CodeKey,
		Verdict:     row.Verdict,
		Score:       row.Score,
		IsInContest: row.IsInContest,
	}
	if s.UUID, err = uuid.Parse(row.Uuid); err != nil {
		return s, fmt.Errorf("bad submission uuid %q: %w", row.Uuid, err)
	}
	if s.ContestUUID, err = uuid.Parse(row.ContestUuid); err != nil {
		return s, fmt.Errorf("bad contest uuid of submission %s: %w", row.Uuid, err)
	}
	if s.UserUUID, err = uuid.Parse(row.UserUuid); err != nil {
		return s, fmt.Errorf("bad user uuid of submission %s: %w", row.Uuid, err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, row.CreatedAt); err != nil {
		return s, fmt.Errorf("bad created_at of submission %s: %w", row.Uuid, err)
	}
	return s, nil
}
