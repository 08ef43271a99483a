package uow

import (
	"accounts/internal/core/domain/user"
	"context"
	"fmt"
	"sync"
)

type FakeUnitOfWorkContext struct {
	UserRepository    *user.FakeUserRepository
	WasRollbackCalled bool
	WasCommitCalled   bool
	release           func()
	lock              sync.Mutex
}

func NewFakeUnitOfWorkContext(userRepository *user.FakeUserRepository) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{UserRepository: userRepository}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.WasCommitCalled {
		c.WasRollbackCalled = true
	}
	c.done()
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasCommitCalled = true
	c.done()
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) done() {
	if c.release != nil {
		c.release()
		c.release = nil
	}
}

// FakeUnitOfWork serializes units of work the way a row lock would: Begin
// blocks until the previous context has been committed or rolled back.
type FakeUnitOfWork struct {
	Context     *FakeUnitOfWorkContext
	ReturnError bool
	lock        sync.Mutex
	contexts    []*FakeUnitOfWorkContext
	contextsMu  sync.Mutex
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(user.NewFakeUserRepository()),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnError {
		return nil, fmt.Errorf("could not begin unit of work")
	}
	u.lock.Lock()
	c := NewFakeUnitOfWorkContext(u.Context.UserRepository)
	c.release = u.lock.Unlock

	u.contextsMu.Lock()
	u.contexts = append(u.contexts, c)
	u.contextsMu.Unlock()

	// Context reflects the most recent unit of work for assertions.
	u.Context = c
	return c, nil
}

func (u *FakeUnitOfWork) CommitCount() int {
	u.contextsMu.Lock()
	defer u.contextsMu.Unlock()
	count := 0
	for _, c := range u.contexts {
		if c.WasCommitCalled {
			count++
		}
	}
	return count
}
