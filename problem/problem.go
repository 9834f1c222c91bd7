package problem

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

var ErrProblemNotFound = errors.New("problem not found")

type Problem struct {
	ID       string
	FullName string
	// MaxPoints caps the points a contest may award for the problem.
	// Zero means no cap.
	MaxPoints int
}

type Catalog interface {
	GetProblem(ctx context.Context, id string) (Problem, error)
}

type InMemCatalog struct {
	lock     sync.Mutex
	problems map[string]Problem
}

func NewInMemCatalog(problems ...Problem) *InMemCatalog {
	c := &InMemCatalog{problems: make(map[string]Problem, len(problems))}
	for _, p := range problems {
		c.problems[p.ID] = p
	}
	return c
}

func (c *InMemCatalog) Add(p Problem) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.problems[p.ID] = p
}

func (c *InMemCatalog) GetProblem(ctx context.Context, id string) (Problem, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	p, ok := c.problems[id]
	if !ok {
		return Problem{}, ErrProblemNotFound
	}
	return p, nil
}

func (c *InMemCatalog) ListProblems(ctx context.Context) ([]Problem, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	res := make([]Problem, 0, len(c.problems))
	for _, p := range c.problems {
		res = append(res, p)
	}
	slices.SortFunc(res, func(a, b Problem) int { return strings.Compare(a.ID, b.ID) })
	return res, nil
}
