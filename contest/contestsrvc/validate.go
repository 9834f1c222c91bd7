package contestsrvc

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/problem"
	"github.com/programme-lv/contests/srvcerror"
)

type contestFields struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=10000"`
	Problems    []problemFields `json:"problems" validate:"dive"`
}

type problemFields struct {
	ProblemID string `json:"problem_id" validate:"required"`
	Points    int    `json:"points" validate:"gt=0"`
}

// MinContestProblems is checked by hand: a failing tag in front of dive
// would stop the validator from reporting problems of the elements.
const MinContestProblems = 3

type contestValidator struct {
	validate *validator.Validate
	catalog  ProblemCatalogFacade
}

func newContestValidator(catalog ProblemCatalogFacade) *contestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &contestValidator{validate: v, catalog: catalog}
}

// check collects every violation of the contest invariants. The start time
// must lie in the future only when creating.
func (cv *contestValidator) check(ctx context.Context, c *domain.Contest, now time.Time, creating bool) error {
	var violations []string

	fields := contestFields{
		Title:       c.Title,
		Description: c.Description,
		Problems:    make([]problemFields, len(c.Problems)),
	}
	for i, p := range c.Problems {
		fields.Problems[i] = problemFields{ProblemID: p.ProblemID, Points: p.Points}
	}

	if err := cv.validate.Struct(fields); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return srvcerror.ErrInternalSE().SetDebug(err)
		}
		for _, fe := range validationErrs {
			violations = append(violations, describeFieldError(fe))
		}
	}

	if len(c.Problems) < MinContestProblems {
		violations = append(violations,
			fmt.Sprintf("problems must contain at least %d items", MinContestProblems))
	}

	switch {
	case c.StartTime.IsZero():
		violations = append(violations, "start_time is required")
	case creating && !c.StartTime.After(now):
		violations = append(violations, "start_time must be in the future")
	}
	if c.EndTime.IsZero() {
		violations = append(violations, "end_time is required")
	} else if !c.StartTime.IsZero() && !c.EndTime.After(c.StartTime) {
		violations = append(violations, "end_time must be after start_time")
	}

	catalogViolations, err := cv.checkProblems(ctx, c.Problems)
	if err != nil {
		return err
	}
	violations = append(violations, catalogViolations...)

	if len(violations) > 0 {
		return newErrValidation(violations)
	}
	return nil
}

func (cv *contestValidator) checkProblems(ctx context.Context, problems []domain.ContestProblem) ([]string, error) {
	var violations []string
	firstIdx := make(map[string]int, len(problems))
	for i, p := range problems {
		if p.ProblemID == "" {
			continue
		}
		if j, dup := firstIdx[p.ProblemID]; dup {
			violations = append(violations,
				fmt.Sprintf("problems[%d].problem_id duplicates problems[%d]", i, j))
			continue
		}
		firstIdx[p.ProblemID] = i

		found, err := cv.catalog.GetProblem(ctx, p.ProblemID)
		if errors.Is(err, problem.ErrProblemNotFound) {
			violations = append(violations,
				fmt.Sprintf("problems[%d].problem_id: problem '%s' does not exist", i, p.ProblemID))
			continue
		}
		if err != nil {
			return nil, srvcerror.ErrInternalSE().SetDebug(fmt.Errorf("problem catalog: %w", err))
		}
		if found.MaxPoints > 0 && p.Points > found.MaxPoints {
			violations = append(violations,
				fmt.Sprintf("problems[%d].points must not exceed %d", i, found.MaxPoints))
		}
	}
	return violations, nil
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}

// validateSubmission checks the language and code of a submission.
func validateSubmission(language string, code string) error {
	var violations []string
	if !domain.Language(language).Valid() {
		allowed := make([]string, len(domain.Languages))
		for i, l := range domain.Languages {
			allowed[i] = string(l)
		}
		violations = append(violations,
			fmt.Sprintf("language must be one of: %s", strings.Join(allowed, ", ")))
	}
	if strings.TrimSpace(code) == "" {
		violations = append(violations, "code is required")
	}
	if len(code) > domain.MaxCodeBytes {
		violations = append(violations,
			fmt.Sprintf("code must be at most %d bytes long", domain.MaxCodeBytes))
	}
	if len(violations) > 0 {
		return newErrValidation(violations)
	}
	return nil
}
